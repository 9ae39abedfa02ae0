package networks

var BaseMainnet Network = NewBaseMainnet()

func NewBaseMainnet() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "base",
		ChainID:          8453,
		NodeVariableName: "BASE_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"public-base": "https://mainnet.base.org",
		},
		BlockExplorerAPIKeyVariableName: "ETHERSCAN_API_KEY",
		BlockscoutAPIURL:                "https://base.blockscout.com",
	})
}

package networks

var ArbitrumMainnet Network = NewArbitrumMainnet()

func NewArbitrumMainnet() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "arbitrum",
		ChainID:          42161,
		NodeVariableName: "ARBITRUM_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"arbitrum-public": "https://arb1.arbitrum.io/rpc",
		},
		BlockExplorerAPIKeyVariableName: "ETHERSCAN_API_KEY",
		BlockscoutAPIURL:                "https://arbitrum.blockscout.com",
	})
}

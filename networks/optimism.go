package networks

var OptimismMainnet Network = NewOptimismMainnet()

func NewOptimismMainnet() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "optimism",
		AlternativeNames: []string{"op"},
		ChainID:          10,
		NodeVariableName: "OPTIMISM_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"optimism-public": "https://mainnet.optimism.io",
		},
		BlockExplorerAPIKeyVariableName: "ETHERSCAN_API_KEY",
		BlockscoutAPIURL:                "https://optimism.blockscout.com",
	})
}

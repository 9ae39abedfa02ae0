package networks

var Avalanche Network = NewAvalanche()

func NewAvalanche() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "avalanche",
		AlternativeNames: []string{"snowtrace"},
		ChainID:          43114,
		NodeVariableName: "AVALANCHE_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"avalanche": "https://api.avax.network/ext/bc/C/rpc",
		},
		BlockExplorerAPIKeyVariableName: "ETHERSCAN_API_KEY",
	})
}

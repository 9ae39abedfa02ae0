package networks

var LineaMainnet Network = NewLineaMainnet()

func NewLineaMainnet() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "linea",
		ChainID:          59144,
		NodeVariableName: "LINEA_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"public-linea": "https://rpc.linea.build",
		},
		BlockExplorerAPIKeyVariableName: "ETHERSCAN_API_KEY",
		BlockscoutAPIURL:                "https://explorer.linea.build",
	})
}

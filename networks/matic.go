package networks

var Matic Network = NewMatic()

func NewMatic() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "matic",
		AlternativeNames: []string{"polygon"},
		ChainID:          137,
		NodeVariableName: "MATIC_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"polygon-rpc": "https://polygon-rpc.com",
		},
		BlockExplorerAPIKeyVariableName: "ETHERSCAN_API_KEY",
		BlockscoutAPIURL:                "https://polygon.blockscout.com",
	})
}

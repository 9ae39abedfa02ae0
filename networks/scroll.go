package networks

var ScrollMainnet Network = NewScrollMainnet()

func NewScrollMainnet() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "scroll",
		ChainID:          534352,
		NodeVariableName: "SCROLL_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"public-scroll": "https://rpc.scroll.io",
		},
		BlockExplorerAPIKeyVariableName: "SCROLLSCAN_API_KEY",
	})
}

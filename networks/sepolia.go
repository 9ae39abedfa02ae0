package networks

var Sepolia Network = NewSepolia()

func NewSepolia() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "sepolia",
		ChainID:          11155111,
		Testnet:          true,
		Faucets:          []string{"https://sepoliafaucet.com", "https://faucet.quicknode.com/ethereum/sepolia"},
		NodeVariableName: "ETHEREUM_SEPOLIA_NODE",
		DefaultNodes: map[string]string{
			"sepolia-publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
		},
		BlockExplorerAPIKeyVariableName: "ETHERSCAN_API_KEY",
		BlockscoutAPIURL:                "https://eth-sepolia.blockscout.com",
		ENSRegistryAddress:              &ENSRegistry,
	})
}

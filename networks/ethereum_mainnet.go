package networks

import (
	"github.com/ethereum/go-ethereum/common"
)

// ENS registry, same address on mainnet and the public testnets.
var ENSRegistry = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

var EthereumMainnet Network = NewEthereumMainnet()

func NewEthereumMainnet() *GenericNetwork {
	return NewGenericNetwork(GenericNetworkConfig{
		Name:             "mainnet",
		AlternativeNames: []string{"ethereum", "eth"},
		ChainID:          1,
		NodeVariableName: "ETHEREUM_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"mainnet-llamarpc":   "https://eth.llamarpc.com",
			"mainnet-publicnode": "https://ethereum-rpc.publicnode.com",
		},
		BlockExplorerAPIKeyVariableName: "ETHERSCAN_API_KEY",
		BlockscoutAPIURL:                "https://eth.blockscout.com",
		ENSRegistryAddress:              &ENSRegistry,
	})
}

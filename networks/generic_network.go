package networks

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const DEFAULT_ETHERSCAN_API_URL string = "https://api.etherscan.io/v2"

type GenericNetworkConfig struct {
	Name                            string            `json:"name"`
	AlternativeNames                []string          `json:"alternative_names"`
	ChainID                         uint64            `json:"chain_id"`
	Testnet                         bool              `json:"testnet"`
	Faucets                         []string          `json:"faucets"`
	NodeVariableName                string            `json:"node_variable_name"`
	DefaultNodes                    map[string]string `json:"default_nodes"`
	BlockExplorerAPIKeyVariableName string            `json:"block_explorer_api_key_variable_name"`
	BlockExplorerAPIURL             string            `json:"block_explorer_api_url"`
	BlockscoutAPIURL                string            `json:"blockscout_api_url"`
	ENSRegistryAddress              *common.Address   `json:"ens_registry_address,omitempty"`
}

// GenericNetwork is a network fully described by its config, which is what
// built-in networks and the custom json networks both are.
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	if config.BlockExplorerAPIURL == "" {
		config.BlockExplorerAPIURL = DEFAULT_ETHERSCAN_API_URL
	}
	if config.AlternativeNames == nil {
		config.AlternativeNames = []string{}
	}
	return &GenericNetwork{config: config}
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) IsTestnet() bool {
	return gn.config.Testnet
}

func (gn *GenericNetwork) GetFaucets() []string {
	return gn.config.Faucets
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

func (gn *GenericNetwork) GetNodes() map[string]string {
	nodes := map[string]string{}
	for name, url := range gn.config.DefaultNodes {
		nodes[name] = url
	}
	if gn.config.NodeVariableName != "" {
		customNode := strings.Trim(os.Getenv(gn.config.NodeVariableName), " ")
		if customNode != "" {
			nodes["custom-node"] = customNode
		}
	}
	return nodes
}

func (gn *GenericNetwork) GetBlockExplorerAPIKeyVariableName() string {
	return gn.config.BlockExplorerAPIKeyVariableName
}

func (gn *GenericNetwork) GetBlockExplorerAPIKey() string {
	if gn.config.BlockExplorerAPIKeyVariableName == "" {
		return ""
	}
	return strings.Trim(os.Getenv(gn.config.BlockExplorerAPIKeyVariableName), " ")
}

func (gn *GenericNetwork) GetBlockExplorerAPIURL() string {
	return gn.config.BlockExplorerAPIURL
}

func (gn *GenericNetwork) GetBlockscoutAPIURL() string {
	return gn.config.BlockscoutAPIURL
}

func (gn *GenericNetwork) GetENSRegistry() (common.Address, bool) {
	if gn.config.ENSRegistryAddress == nil {
		return common.Address{}, false
	}
	return *gn.config.ENSRegistryAddress, true
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(gn.config, "", "  ")
}

package networks

import (
	"github.com/ethereum/go-ethereum/common"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	IsTestnet() bool
	GetFaucets() []string

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string
	// GetNodes returns the default nodes plus the node set in the
	// network's node variable, if any.
	GetNodes() map[string]string

	GetBlockExplorerAPIKeyVariableName() string
	GetBlockExplorerAPIKey() string
	GetBlockExplorerAPIURL() string
	GetBlockscoutAPIURL() string

	// GetENSRegistry returns the ENS registry deployed on the network.
	// ok is false when the network has no name service.
	GetENSRegistry() (registry common.Address, ok bool)

	MarshalJSON() ([]byte, error)
}

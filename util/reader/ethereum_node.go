package reader

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type EthereumNode interface {
	NodeName() string
	NodeURL() string
	ChainID(ctx context.Context) (uint64, error)
	GetCode(ctx context.Context, address common.Address) (code []byte, err error)
	// GetCodes looks up the code of every address in one JSON-RPC batch.
	// The result has the same order as addresses.
	GetCodes(ctx context.Context, addresses []common.Address) (codes [][]byte, err error)
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

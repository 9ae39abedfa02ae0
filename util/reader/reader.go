package reader

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EthReader reads from several nodes of the same chain at once and takes
// the first successful answer.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	ns := map[string]EthereumNode{}
	for name, c := range nodes {
		ns[name] = NewOneNodeReader(name, c)
	}
	return &EthReader{
		nodes: ns,
	}
}

func NewEthReaderWithNodes(nodes ...EthereumNode) *EthReader {
	ns := map[string]EthereumNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &EthReader{
		nodes: ns,
	}
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

// firstSuccess runs read on every node concurrently and returns the first
// value without error. When every node fails the errors are joined.
func firstSuccess[T any](ctx context.Context, er *EthReader, read func(context.Context, EthereumNode) (T, error)) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, fmt.Errorf("no nodes configured")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan nodeResult[T], len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			v, err := read(ctx, n)
			resCh <- nodeResult[T]{
				Value: v,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ChainID(ctx context.Context) (uint64, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.ChainID(ctx)
	})
}

func (er *EthReader) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.GetCode(ctx, address)
	})
}

func (er *EthReader) GetCodes(ctx context.Context, addresses []common.Address) ([][]byte, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) ([][]byte, error) {
		return n.GetCodes(ctx, addresses)
	})
}

func (er *EthReader) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return firstSuccess(ctx, er, func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.CallContract(ctx, to, data)
	})
}

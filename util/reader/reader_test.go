package reader_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/addrlens/util/reader"
)

var (
	contractAddr = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	eoaAddr      = common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
)

// ethService is served in-process under the "eth" namespace, so GetCode
// answers eth_getCode and so on.
type ethService struct {
	codes    map[common.Address]hexutil.Bytes
	getCodes atomic.Int32
	fail     bool
}

func (s *ethService) ChainId() (*hexutil.Big, error) {
	if s.fail {
		return nil, errors.New("node is syncing")
	}
	return (*hexutil.Big)(hexutil.MustDecodeBig("0x1")), nil
}

func (s *ethService) GetCode(addr common.Address, block string) (hexutil.Bytes, error) {
	s.getCodes.Add(1)
	if s.fail {
		return nil, errors.New("node is syncing")
	}
	return s.codes[addr], nil
}

func (s *ethService) Call(args map[string]interface{}, block string) (hexutil.Bytes, error) {
	if s.fail {
		return nil, errors.New("node is syncing")
	}
	return hexutil.Bytes{0x01, 0x02}, nil
}

func newInProcNode(t *testing.T, name string, svc *ethService) *reader.OneNodeReader {
	t.Helper()
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", svc))
	client := rpc.DialInProc(srv)
	t.Cleanup(func() {
		client.Close()
		srv.Stop()
	})
	return reader.NewOneNodeReaderWithClient(name, client)
}

func TestGetCodesBatchesInOrder(t *testing.T) {
	svc := &ethService{codes: map[common.Address]hexutil.Bytes{
		contractAddr: {0x60, 0x80, 0x60, 0x40},
	}}
	node := newInProcNode(t, "local", svc)

	codes, err := node.GetCodes(context.Background(), []common.Address{eoaAddr, contractAddr})
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Empty(t, codes[0])
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40}, codes[1])
	assert.EqualValues(t, 2, svc.getCodes.Load())
}

func TestGetCodesReportsElementErrors(t *testing.T) {
	node := newInProcNode(t, "broken", &ethService{fail: true})

	_, err := node.GetCodes(context.Background(), []common.Address{contractAddr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eth_getCode")
}

func TestEthReaderTakesFirstHealthyNode(t *testing.T) {
	healthy := newInProcNode(t, "healthy", &ethService{codes: map[common.Address]hexutil.Bytes{
		contractAddr: {0x01},
	}})
	broken := newInProcNode(t, "broken", &ethService{fail: true})
	r := reader.NewEthReaderWithNodes(broken, healthy)

	codes, err := r.GetCodes(context.Background(), []common.Address{contractAddr})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x01}}, codes)

	id, err := r.ChainID(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	out, err := r.CallContract(context.Background(), contractAddr, []byte{0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, out)
}

func TestEthReaderJoinsErrorsWhenAllNodesFail(t *testing.T) {
	r := reader.NewEthReaderWithNodes(
		newInProcNode(t, "first", &ethService{fail: true}),
		newInProcNode(t, "second", &ethService{fail: true}),
	)

	_, err := r.GetCode(context.Background(), contractAddr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't read from any nodes")
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestEthReaderWithoutNodes(t *testing.T) {
	_, err := reader.NewEthReaderGeneric(map[string]string{}).GetCode(context.Background(), contractAddr)
	assert.Error(t, err)
}

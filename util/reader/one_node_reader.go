package reader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const TIMEOUT time.Duration = 4 * time.Second

type OneNodeReader struct {
	nodeName  string
	nodeURL   string
	client    *rpc.Client
	ethClient *ethclient.Client
	mu        sync.Mutex
}

func NewOneNodeReader(name, url string) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
	}
}

// NewOneNodeReaderWithClient wraps an already connected client, e.g. an
// in-process server.
func NewOneNodeReaderWithClient(name string, client *rpc.Client) *OneNodeReader {
	return &OneNodeReader{
		nodeName:  name,
		nodeURL:   "inproc://" + name,
		client:    client,
		ethClient: ethclient.NewClient(client),
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

func (onr *OneNodeReader) initConnection() error {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		return nil
	}
	client, err := rpc.Dial(onr.NodeURL())
	if err != nil {
		return fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	onr.ethClient = ethclient.NewClient(onr.client)
	return nil
}

func (onr *OneNodeReader) Client() (*rpc.Client, error) {
	if err := onr.initConnection(); err != nil {
		return nil, err
	}
	return onr.client, nil
}

func (onr *OneNodeReader) EthClient() (*ethclient.Client, error) {
	if err := onr.initConnection(); err != nil {
		return nil, err
	}
	return onr.ethClient, nil
}

func (onr *OneNodeReader) ChainID(ctx context.Context) (uint64, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	id, err := ethcli.ChainID(timeout)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

func (onr *OneNodeReader) GetCode(ctx context.Context, address common.Address) (code []byte, err error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.CodeAt(timeout, address, nil)
}

func (onr *OneNodeReader) GetCodes(ctx context.Context, addresses []common.Address) ([][]byte, error) {
	if len(addresses) == 0 {
		return [][]byte{}, nil
	}
	cli, err := onr.Client()
	if err != nil {
		return nil, err
	}
	results := make([]hexutil.Bytes, len(addresses))
	batch := make([]rpc.BatchElem, len(addresses))
	for i, addr := range addresses {
		batch[i] = rpc.BatchElem{
			Method: "eth_getCode",
			Args:   []interface{}{addr, "latest"},
			Result: &results[i],
		}
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	if err := cli.BatchCallContext(timeout, batch); err != nil {
		return nil, err
	}
	codes := make([][]byte, len(addresses))
	for i, elem := range batch {
		if elem.Error != nil {
			return nil, fmt.Errorf("eth_getCode(%s): %w", addresses[i].Hex(), elem.Error)
		}
		codes[i] = results[i]
	}
	return codes, nil
}

func (onr *OneNodeReader) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.CallContract(timeout, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
}

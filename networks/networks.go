package networks

import (
	"sync"
)

var (
	cachedNetwork Network
	mu            sync.Mutex
)

var NetworkString string

func CurrentNetwork() Network {
	mu.Lock()
	defer mu.Unlock()
	if cachedNetwork != nil {
		return cachedNetwork
	}
	n, err := GetNetwork(NetworkString)
	if err != nil {
		n = EthereumMainnet
	}
	cachedNetwork = n
	return cachedNetwork
}

// SetNetwork switches the current network. Unknown names leave the current
// network untouched.
func SetNetwork(networkStr string) (Network, error) {
	n, err := GetNetwork(networkStr)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	NetworkString = networkStr
	cachedNetwork = n
	return n, nil
}

package networks

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	EthereumMainnet,
	Sepolia,
	BSCMainnet,
	BSCTestnet,
	Matic,
	OptimismMainnet,
	ArbitrumMainnet,
	BaseMainnet,
	Avalanche,
	LineaMainnet,
	ScrollMainnet,
}

var (
	CUSTOM_NETWORKS_DIR string = filepath.Join(getHomeDir(), ".addrlens", "networks")

	globalSupportedNetworks = newSupportedNetworks(CUSTOM_NETWORKS_DIR)
	ErrNetworkNotFound      = fmt.Errorf("network not found")
)

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		return os.TempDir()
	}
	return usr.HomeDir
}

type networks struct {
	networks     map[string]Network
	networksByID map[uint64]Network
}

func (n *networks) getSupportedNetworkNames() []string {
	res := []string{}
	for name := range n.networks {
		res = append(res, name)
	}
	return res
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	res, found := n.networks[name]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) add(network Network) error {
	n.networks[network.GetName()] = network
	n.networksByID[network.GetChainID()] = network
	for _, an := range network.GetAlternativeNames() {
		if existing, found := n.networks[an]; found && existing.GetChainID() != network.GetChainID() {
			return fmt.Errorf("network with name or alternative name of '%s' already exists", an)
		}
		n.networks[an] = network
	}
	return nil
}

func newSupportedNetworks(customDir string) *networks {
	result := networks{
		map[string]Network{},
		map[uint64]Network{},
	}
	for _, n := range supportedNetworks {
		if _, found := result.networks[n.GetName()]; found {
			panic(
				fmt.Errorf(
					"network with name or alternative name of '%s' already exists",
					n.GetName(),
				),
			)
		}
		if err := result.add(n); err != nil {
			panic(err)
		}
	}

	customNetworks, err := loadCustomNetworks(customDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to load custom networks: %s. Ignore and continue with built-in networks.\n", err)
		return &result
	}

	for _, n := range customNetworks {
		// custom networks override built-in ones with the same name or id
		if err := result.add(n); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s. Ignored.\n", err)
		}
	}
	return &result
}

func loadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	networks := []Network{}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}

		network, err := NewNetworkFromJSON(content)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse network from file %s: %s. Ignore and continue with other custom networks.\n", file, err)
			continue
		}

		networks = append(networks, network)
	}

	return networks, nil
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	networkConfig := GenericNetworkConfig{}
	err := json.Unmarshal(content, &networkConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if networkConfig.Name == "" {
		return nil, fmt.Errorf("network config has no name")
	}
	if networkConfig.ChainID == 0 {
		return nil, fmt.Errorf("network config has no chain id")
	}

	return NewGenericNetwork(networkConfig), nil
}

// GetSupportedNetworks returns every distinct network, built-in and custom.
func GetSupportedNetworks() []Network {
	res := []Network{}
	for _, n := range globalSupportedNetworks.networksByID {
		res = append(res, n)
	}
	return res
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

// AddNetwork registers network for this process and stores it in the
// custom networks dir so later runs pick it up.
func AddNetwork(network Network) error {
	if err := globalSupportedNetworks.add(network); err != nil {
		return err
	}

	if err := os.MkdirAll(CUSTOM_NETWORKS_DIR, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", CUSTOM_NETWORKS_DIR, err)
	}

	content, err := network.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}

	err = os.WriteFile(filepath.Join(CUSTOM_NETWORKS_DIR, fmt.Sprintf("%s.json", network.GetName())), content, 0644)
	if err != nil {
		return fmt.Errorf("failed to write the new network to file: %w", err)
	}

	return nil
}

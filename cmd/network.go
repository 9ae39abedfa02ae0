package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/addrlens/networks"
	"github.com/tranvictor/addrlens/ui"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

// readNetworkConfig accepts either a json object or a path to a json file.
func readNetworkConfig(config string) (networks.Network, error) {
	config = strings.TrimSpace(config)
	if config == "" {
		return nil, fmt.Errorf("--config is required")
	}
	if strings.HasPrefix(config, "{") && strings.HasSuffix(config, "}") {
		n, err := networks.NewNetworkFromJSON([]byte(config))
		if err != nil {
			return nil, fmt.Errorf("the provided json is not valid: %w", err)
		}
		return n, nil
	}
	content, err := os.ReadFile(config)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the provided json file: %w", err)
	}
	n, err := networks.NewNetworkFromJSON(content)
	if err != nil {
		return nil, fmt.Errorf("the provided json is not a valid network config: %w", err)
	}
	return n, nil
}

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--config takes a network config json file path OR a json string:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1"],
		"chain_id": 1,
		"testnet": false,
		"faucets": [],
		"node_variable_name": "MY_NETWORK_NODE",
		"default_nodes": {
			"node_name_1": "node_url_1"
		},
		"block_explorer_api_key_variable_name": "ETHERSCAN_API_KEY",
		"block_explorer_api_url": "https://api.etherscan.io/v2",
		"blockscout_api_url": "https://eth.blockscout.com",
		"ens_registry_address": "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"
	}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		newNetwork, err := readNetworkConfig(NetworkConfig)
		if err != nil {
			return err
		}

		allNames := append([]string{newNetwork.GetName()}, newNetwork.GetAlternativeNames()...)
		for _, name := range allNames {
			if _, err := networks.GetNetwork(name); err == nil {
				if !NetworkForce {
					return fmt.Errorf("network with name %s already exists, use --force to replace it", name)
				}
				u.Warn("Network with name %s already exists. It will be replaced.", name)
			}
		}

		if err := networks.AddNetwork(newNetwork); err != nil {
			return fmt.Errorf("failed to add the new network: %w", err)
		}
		u.Success(
			"Network %s with chain ID %d added and saved to %s.",
			newNetwork.GetName(), newNetwork.GetChainID(), networks.CUSTOM_NETWORKS_DIR,
		)
		return nil
	},
}

func renderNetworks(u ui.UI, list []networks.Network) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].GetChainID() < list[j].GetChainID()
	})
	for i, n := range list {
		names := n.GetName()
		if alt := n.GetAlternativeNames(); len(alt) > 0 {
			names += " (" + strings.Join(alt, ", ") + ")"
		}
		u.Info("%d. %s, chain ID %d", i+1, names, n.GetChainID())
		details := u.Indent()
		_, hasENS := n.GetENSRegistry()
		details.KeyValue([][2]string{
			{"Node env", n.GetNodeVariableName()},
			{"Names", fmt.Sprintf("%t", hasENS)},
			{"Testnet", fmt.Sprintf("%t", n.IsTestnet())},
		})
		nodes := n.GetNodes()
		keys := make([]string, 0, len(nodes))
		for key := range nodes {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			details.Info("- %s: %s", key, nodes[key])
		}
		for _, faucet := range n.GetFaucets() {
			details.Info("faucet: %s", faucet)
		}
	}
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()
		renderNetworks(u, networks.GetSupportedNetworks())
		u.Info("")
		u.Info("To add a network: addrlens network add --config <json or file>")
		u.Info("To delete a network, delete its json file in %s.", networks.CUSTOM_NETWORKS_DIR)
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage the networks addrlens supports",
}

func init() {
	addNetworkCmd.PersistentFlags().StringVarP(&NetworkConfig, "config", "c", "", "Path to the network config json file, or the json itself")
	addNetworkCmd.PersistentFlags().BoolVarP(&NetworkForce, "force", "f", false, "Replace the network if it already exists")

	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}

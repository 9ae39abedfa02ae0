package networks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customNetworkJSON = `{
	"name": "devnet",
	"alternative_names": ["local"],
	"chain_id": 31337,
	"testnet": true,
	"node_variable_name": "DEVNET_NODE",
	"default_nodes": {"anvil": "http://127.0.0.1:8545"},
	"ens_registry_address": "0x00000000000c2e074ec69a0dfb2997ba6c7d2e1e"
}`

func TestBuiltInLookups(t *testing.T) {
	n, err := GetNetwork("mainnet")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n.GetChainID())

	alias, err := GetNetwork("polygon")
	require.NoError(t, err)
	assert.Equal(t, "matic", alias.GetName())

	byID, err := GetNetworkByID(8453)
	require.NoError(t, err)
	assert.Equal(t, "base", byID.GetName())

	_, err = GetNetwork("tomo")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestENSRegistryOnlyWhereDeployed(t *testing.T) {
	registry, ok := EthereumMainnet.GetENSRegistry()
	require.True(t, ok)
	assert.Equal(t, ENSRegistry, registry)

	_, ok = BSCMainnet.GetENSRegistry()
	assert.False(t, ok)
}

func TestNodeVariableAddsCustomNode(t *testing.T) {
	t.Setenv("BASE_MAINNET_NODE", " http://localhost:9999 ")
	nodes := BaseMainnet.GetNodes()
	assert.Equal(t, "http://localhost:9999", nodes["custom-node"])
	assert.Contains(t, nodes, "public-base")
	assert.NotContains(t, BaseMainnet.GetDefaultNodes(), "custom-node")
}

func TestCustomNetworksFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "devnet.json"), []byte(customNetworkJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name": ""}`), 0644))

	ns := newSupportedNetworks(dir)

	n, err := ns.getNetwork("local")
	require.NoError(t, err)
	assert.EqualValues(t, 31337, n.GetChainID())
	assert.True(t, n.IsTestnet())
	_, ok := n.GetENSRegistry()
	assert.True(t, ok)

	byID, err := ns.getNetworkByID(31337)
	require.NoError(t, err)
	assert.Equal(t, "devnet", byID.GetName())
}

func TestMarshalRoundTripKeepsRegistry(t *testing.T) {
	content, err := EthereumMainnet.MarshalJSON()
	require.NoError(t, err)

	n, err := NewNetworkFromJSON(content)
	require.NoError(t, err)
	registry, ok := n.GetENSRegistry()
	require.True(t, ok)
	assert.Equal(t, ENSRegistry, registry)
	assert.Equal(t, []string{"ethereum", "eth"}, n.GetAlternativeNames())
}

func TestTestnetsCarryFaucets(t *testing.T) {
	n, err := GetNetwork("bsc-testnet")
	require.NoError(t, err)
	assert.True(t, n.IsTestnet())
	assert.NotEmpty(t, n.GetFaucets())

	assert.False(t, LineaMainnet.IsTestnet())
	assert.Empty(t, LineaMainnet.GetFaucets())
}

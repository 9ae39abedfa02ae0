package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lenscommon "github.com/tranvictor/addrlens/common"
)

func TestLabelDBLookups(t *testing.T) {
	db := NewLabelDB(map[string]string{
		"0xd8da6bf26964af9d7eed9e03e53415d37aa96045": "Vitalik Buterin",
		"0x1111111111111111111111111111111111111111": "treasury",
		"0x2222222222222222222222222222222222222222": "Treasury",
		"not an address":                             "ignored",
	})
	assert.Equal(t, 3, db.Len())

	addr, err := db.AddressOf("vitalik buterin")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045"), addr)

	_, err = db.AddressOf("nobody")
	assert.True(t, errors.Is(err, lenscommon.ErrNotFound))

	_, err = db.AddressOf("treasury")
	require.Error(t, err)
	assert.False(t, errors.Is(err, lenscommon.ErrNotFound))
	assert.Contains(t, err.Error(), "ambiguous")

	assert.Equal(t, "Vitalik Buterin", db.GetName("0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045"))
	assert.Equal(t, lenscommon.UNKNOWN_NAME, db.GetName("0x3333333333333333333333333333333333333333"))
}

func TestSearch(t *testing.T) {
	db := NewLabelDB(WELL_KNOWN)
	results, scores := db.Search("uniswap router")
	require.NotEmpty(t, results)
	assert.Len(t, scores, len(results))
	assert.Equal(t, "Uniswap V2 Router", results[0].Name)

	results, _ = db.Search("zzzzzzzzzzzz")
	assert.Empty(t, results)
}

func TestNewDefaultLabelDBReadsFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "addresses.json")
	second := filepath.Join(dir, "labels.json")
	link := filepath.Join(dir, "linked.json")
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(first, []byte(`{"0x1111111111111111111111111111111111111111": "ops"}`), 0644))
	require.NoError(t, os.WriteFile(second, []byte(`{"0x1111111111111111111111111111111111111111": "ops multisig"}`), 0644))
	require.NoError(t, os.Symlink(second, link))
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0644))

	saved := LABEL_FILES
	defer func() { LABEL_FILES = saved }()
	LABEL_FILES = []string{first, link, broken, filepath.Join(dir, "missing.json")}

	db, errs := NewDefaultLabelDB()
	assert.Len(t, errs, 1)
	assert.Equal(t, "ops multisig", db.GetName("0x1111111111111111111111111111111111111111"))
	assert.Equal(t, "WETH", db.GetName("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"))
}

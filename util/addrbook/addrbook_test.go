package addrbook

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lenscommon "github.com/tranvictor/addrlens/common"
	"github.com/tranvictor/addrlens/db"
	"github.com/tranvictor/addrlens/identity"
)

var labels = map[string]string{
	"0xd8da6bf26964af9d7eed9e03e53415d37aa96045": "vitalik",
}

func TestDefaultResolve(t *testing.T) {
	r := NewDefault(db.NewLabelDB(labels))

	got := r.Resolve("0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045")
	assert.Equal(t, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", got.Address)
	assert.Equal(t, "vitalik", got.Desc)
	assert.True(t, got.Known())

	got = r.Resolve("0x0000000000000000000000000000000000000001")
	assert.Equal(t, lenscommon.UNKNOWN_NAME, got.Desc)
	assert.False(t, got.Known())

	assert.Equal(t, lenscommon.UNKNOWN_NAME, r.Resolve("vitalik").Desc)
}

func TestMapResolve(t *testing.T) {
	m := Map(labels)
	assert.Equal(t, "vitalik", m.Resolve("0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045").Desc)
	assert.Equal(t, lenscommon.UNKNOWN_NAME, m.Resolve("0x01").Desc)
}

func TestNameServiceResolvesLabels(t *testing.T) {
	var ns identity.NameResolver = NewNameService(db.NewLabelDB(labels), "test")
	assert.Equal(t, "addrbook:test", ns.Endpoint())

	addr, err := ns.ResolveName(context.Background(), "Vitalik")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045"), addr)

	_, err = ns.ResolveName(context.Background(), "satoshi")
	assert.True(t, errors.Is(err, lenscommon.ErrNotFound))
}

func TestNameServiceThroughAddressCache(t *testing.T) {
	cache := identity.NewAddressCache(NewNameService(db.NewLabelDB(labels), "test"), identity.Options{})
	res := cache.Resolve(context.Background(), "vitalik")
	require.NoError(t, res.Err)
	assert.True(t, res.IsName)
	assert.Equal(t, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", res.Address.Hex())
}

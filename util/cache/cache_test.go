package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/addrlens/util/cache"
)

func TestStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")

	s := cache.NewStore(path)
	require.NoError(t, s.SetMany(map[string]string{
		cache.HasCodeKey(1, "0xABCD"): "true",
		"Greeting":                    "hello",
	}))

	reopened := cache.NewStore(path)
	hasCode, found := reopened.GetBool(cache.HasCodeKey(1, "0xabcd"))
	require.True(t, found)
	assert.True(t, hasCode)

	v, found := reopened.Get("greeting")
	require.True(t, found)
	assert.Equal(t, "hello", v)
}

func TestStoreIgnoresCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := cache.NewStore(path)
	_, found := s.Get("anything")
	assert.False(t, found)

	require.NoError(t, s.SetMany(map[string]string{"a": "1", "b": "2"}))
	v, found := cache.NewStore(path).Get("b")
	require.True(t, found)
	assert.Equal(t, "2", v)
}

func TestGetBoolRejectsNonBool(t *testing.T) {
	s := cache.NewStore(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, s.SetMany(map[string]string{"flag": "maybe"}))
	_, found := s.GetBool("flag")
	assert.False(t, found)
}

func TestHasCodeKeyIsChainScoped(t *testing.T) {
	assert.NotEqual(t, cache.HasCodeKey(1, "0xabc"), cache.HasCodeKey(10, "0xabc"))
	assert.Equal(t, cache.HasCodeKey(1, "0xABC"), cache.HasCodeKey(1, "0xabc"))
}

package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var CACHE_PATH string = filepath.Join(getHomeDir(), ".addrlens", "cache.json")

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		return os.TempDir()
	}
	return usr.HomeDir
}

// Store is a small persistent key value cache backed by one json file.
// Keys are case-insensitive. It is meant for facts that never change once
// observed, such as whether an address had code at some point.
type Store struct {
	mu     sync.Mutex
	path   string
	loaded bool
	Data   map[string]string `json:"Data"`
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		Data: map[string]string{},
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) persist() error {
	jsonData, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, jsonData, 0644)
}

func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	content, err := os.ReadFile(s.path)
	if err != nil {
		// WARNING: swallow error here, a missing file is an empty cache
		return
	}
	data := struct {
		Data map[string]string `json:"Data"`
	}{}
	if err := json.Unmarshal(content, &data); err != nil {
		// WARNING: swallow error here, a corrupted file gets overwritten
		return
	}
	for k, v := range data.Data {
		s.Data[k] = v
	}
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	value, found := s.Data[strings.ToLower(key)]
	return value, found
}

// SetMany writes several entries with a single flush to disk.
func (s *Store) SetMany(entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	for k, v := range entries {
		s.Data[strings.ToLower(k)] = v
	}
	return s.persist()
}

func (s *Store) GetBool(key string) (bool, bool) {
	value, found := s.Get(key)
	if !found {
		return false, false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}
	return b, true
}

// HasCodeKey is the key under which code presence of addr on chainID is
// stored.
func HasCodeKey(chainID uint64, addr string) string {
	return fmt.Sprintf("%d_%s_hasCode", chainID, strings.ToLower(addr))
}

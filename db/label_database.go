package db

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	lenscommon "github.com/tranvictor/addrlens/common"
)

// LABEL_FILES are read in order, later files override earlier ones. Each is
// a json object from address to label.
var LABEL_FILES = []string{
	filepath.Join(getHomeDir(), "addresses.json"),
	filepath.Join(getHomeDir(), ".addrlens", "labels.json"),
}

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		return os.TempDir()
	}
	return usr.HomeDir
}

type Label struct {
	Address common.Address
	Name    string
}

// LabelDB is the local address book: a label per address.
type LabelDB struct {
	labels map[common.Address]string
}

func NewLabelDB(labels map[string]string) *LabelDB {
	db := &LabelDB{labels: map[common.Address]string{}}
	for addr, name := range labels {
		db.Register(addr, name)
	}
	return db
}

// NewDefaultLabelDB loads the well known labels, then LABEL_FILES.
// Unreadable files are skipped and reported in the returned error list.
func NewDefaultLabelDB() (*LabelDB, []error) {
	db := NewLabelDB(WELL_KNOWN)
	errs := []error{}
	for _, file := range LABEL_FILES {
		labels, err := readLabelFile(file)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, err)
			}
			continue
		}
		for addr, name := range labels {
			db.Register(addr, name)
		}
	}
	return db, errs
}

func readLabelFile(file string) (map[string]string, error) {
	fi, err := os.Lstat(file)
	if err != nil {
		return nil, err
	}
	// if the file is a symlink
	if fi.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(file)
		if err != nil {
			return nil, fmt.Errorf("reading labels from %s failed: %w", file, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(file), target)
		}
		file = target
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading labels from %s failed: %w", file, err)
	}
	result := map[string]string{}
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("reading labels from %s failed: %w", file, err)
	}
	return result, nil
}

// Register ignores entries whose key is not an address.
func (db *LabelDB) Register(addr string, name string) {
	if !lenscommon.IsLiteralAddress(addr) || strings.TrimSpace(name) == "" {
		return
	}
	db.labels[lenscommon.HexToAddress(addr)] = strings.TrimSpace(name)
}

func (db *LabelDB) Len() int {
	return len(db.labels)
}

func (db *LabelDB) GetName(addr string) string {
	name, found := db.labels[lenscommon.HexToAddress(addr)]
	if found {
		return name
	}
	return lenscommon.UNKNOWN_NAME
}

// AddressOf returns the address labeled exactly name, ignoring case. A
// label used by more than one address is an error.
func (db *LabelDB) AddressOf(name string) (common.Address, error) {
	name = strings.TrimSpace(name)
	matches := []common.Address{}
	for addr, label := range db.labels {
		if strings.EqualFold(label, name) {
			matches = append(matches, addr)
		}
	}
	switch len(matches) {
	case 0:
		return common.Address{}, fmt.Errorf("no address is labeled %q: %w", name, lenscommon.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	sortAddresses(matches)
	return common.Address{}, fmt.Errorf(
		"label %q is ambiguous, it names %d addresses: %s",
		name, len(matches), strings.Join(lenscommon.LowerAddresses(matches), ", "),
	)
}

// Labels returns every entry sorted by address.
func (db *LabelDB) Labels() []Label {
	result := make([]Label, 0, len(db.labels))
	for addr, name := range db.labels {
		result = append(result, Label{Address: addr, Name: name})
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Address.Hex()) < strings.ToLower(result[j].Address.Hex())
	})
	return result
}

// All returns the labels keyed by lower case address.
func (db *LabelDB) All() map[string]string {
	result := map[string]string{}
	for addr, name := range db.labels {
		result[strings.ToLower(addr.Hex())] = name
	}
	return result
}

func sortAddresses(addrs []common.Address) {
	sort.Slice(addrs, func(i, j int) bool {
		return strings.ToLower(addrs[i].Hex()) < strings.ToLower(addrs[j].Hex())
	})
}

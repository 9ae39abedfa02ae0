// Package sourcemeta fetches verified source metadata for contracts from an
// ordered list of verification backends and caches the outcome per
// (chain, address, preference list).
package sourcemeta

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type Status int

const (
	Pending Status = iota
	NotFound
	Found
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case NotFound:
		return "not found"
	case Found:
		return "found"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Payload is what a backend knows about a verified contract.
type Payload struct {
	Backend         string          `json:"backend"`
	Match           string          `json:"match,omitempty"`
	ContractName    string          `json:"contract_name"`
	CompilerVersion string          `json:"compiler_version"`
	Language        string          `json:"language,omitempty"`
	ABI             json.RawMessage `json:"abi,omitempty"`
	Sources         []string        `json:"sources,omitempty"`
	Raw             json.RawMessage `json:"-"`
}

// Record is the settled or pending outcome of a metadata lookup. A NotFound
// record with a non nil Err means at least one backend failed rather than
// answering negatively.
type Record struct {
	Status  Status   `json:"status"`
	Payload *Payload `json:"payload,omitempty"`
	Err     error    `json:"-"`
}

func (r Record) Settled() bool {
	return r.Status != Pending
}

func (r Record) Failed() bool {
	return r.Status == NotFound && r.Err != nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Backend is one verification registry.
type Backend interface {
	Name() string
	// FetchMetadata returns an error wrapping common.ErrNotFound when the
	// backend has no verified source for addr.
	FetchMetadata(ctx context.Context, chainID uint64, addr common.Address) (*Payload, error)
}

// FetchError tells which backends failed during a lookup that found
// nothing.
type FetchError struct {
	Backend string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("metadata backend %s: %s", e.Backend, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Key identifies one cache entry. Preference is the backend names joined
// with commas, in order.
type Key struct {
	ChainID    uint64
	Address    common.Address
	Preference string
}

func NewKey(chainID uint64, addr common.Address, prefs []string) Key {
	return Key{
		ChainID:    chainID,
		Address:    addr,
		Preference: PreferenceKey(prefs),
	}
}

func PreferenceKey(prefs []string) string {
	cleaned := make([]string, 0, len(prefs))
	for _, p := range prefs {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, ",")
}

// ParsePreference splits a comma separated backend list.
func ParsePreference(s string) []string {
	key := PreferenceKey(strings.Split(s, ","))
	if key == "" {
		return nil
	}
	return strings.Split(key, ",")
}

package explorers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/addrlens/sourcemeta"
)

type MatchLevel string

const (
	FullMatch    MatchLevel = "full_match"
	PartialMatch MatchLevel = "partial_match"
)

// SourcifyBackend reads contract metadata from a sourcify repository
// server at one match level.
type SourcifyBackend struct {
	Server string
	Match  MatchLevel
	Client *http.Client
}

func NewSourcifyBackend(server string, match MatchLevel) *SourcifyBackend {
	if server == "" {
		server = DEFAULT_SOURCIFY_SERVER
	}
	return &SourcifyBackend{
		Server: strings.TrimRight(server, "/"),
		Match:  match,
		Client: defaultClient(),
	}
}

func (sb *SourcifyBackend) Name() string {
	if sb.Match == PartialMatch {
		return "sourcify-partial"
	}
	return "sourcify-full"
}

func (sb *SourcifyBackend) MetadataURL(chainID uint64, addr common.Address) string {
	return fmt.Sprintf(
		"%s/contracts/%s/%d/%s/metadata.json",
		sb.Server,
		sb.Match,
		chainID,
		addr.Hex(),
	)
}

type sourcifyMetadata struct {
	Language string `json:"language"`
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Output struct {
		ABI json.RawMessage `json:"abi"`
	} `json:"output"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
	Sources map[string]json.RawMessage `json:"sources"`
}

func (sb *SourcifyBackend) FetchMetadata(ctx context.Context, chainID uint64, addr common.Address) (*sourcemeta.Payload, error) {
	body, err := getBody(ctx, sb.Client, sb.MetadataURL(chainID, addr))
	if err != nil {
		return nil, err
	}
	meta := sourcifyMetadata{}
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal sourcify metadata of %s: %w", addr.Hex(), err)
	}

	payload := &sourcemeta.Payload{
		Backend:         sb.Name(),
		Match:           strings.TrimSuffix(string(sb.Match), "_match"),
		CompilerVersion: meta.Compiler.Version,
		Language:        meta.Language,
		ABI:             meta.Output.ABI,
		Raw:             body,
	}
	for _, name := range meta.Settings.CompilationTarget {
		payload.ContractName = name
	}
	for path := range meta.Sources {
		payload.Sources = append(payload.Sources, path)
	}
	sort.Strings(payload.Sources)
	return payload, nil
}

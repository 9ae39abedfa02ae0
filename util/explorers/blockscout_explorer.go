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

// BlockscoutExplorer reads verified sources from the blockscout v2 api.
type BlockscoutExplorer struct {
	Domain string
	Client *http.Client
}

func NewBlockscoutExplorer(domain string) *BlockscoutExplorer {
	return &BlockscoutExplorer{
		Domain: strings.TrimRight(domain, "/"),
		Client: defaultClient(),
	}
}

func (be *BlockscoutExplorer) Name() string {
	return "blockscout"
}

// SmartContractResponse is the part of /api/v2/smart-contracts/{address}
// we read.
type SmartContractResponse struct {
	IsVerified          bool             `json:"is_verified"`
	IsPartiallyVerified bool             `json:"is_partially_verified"`
	IsFullyVerified     bool             `json:"is_fully_verified"`
	Name                string           `json:"name"`
	CompilerVersion     string           `json:"compiler_version"`
	ABI                 json.RawMessage  `json:"abi"`
	FilePath            string           `json:"file_path"`
	AdditionalSources   []ContractSource `json:"additional_sources"`
	Language            string           `json:"language"`
}

type ContractSource struct {
	FilePath   string `json:"file_path"`
	SourceCode string `json:"source_code"`
}

func (be *BlockscoutExplorer) SmartContractURL(address string) string {
	return fmt.Sprintf("%s/api/v2/smart-contracts/%s", be.Domain, address)
}

func (be *BlockscoutExplorer) FetchMetadata(ctx context.Context, chainID uint64, addr common.Address) (*sourcemeta.Payload, error) {
	body, err := getBody(ctx, be.Client, be.SmartContractURL(addr.Hex()))
	if err != nil {
		return nil, err
	}
	sc := SmartContractResponse{}
	if err := json.Unmarshal(body, &sc); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal blockscout response of %s: %w", addr.Hex(), err)
	}
	if !sc.IsVerified {
		return nil, notFound(be.Name(), addr)
	}
	payload := &sourcemeta.Payload{
		Backend:         be.Name(),
		ContractName:    sc.Name,
		CompilerVersion: sc.CompilerVersion,
		Language:        sc.Language,
		ABI:             sc.ABI,
		Raw:             body,
	}
	switch {
	case sc.IsFullyVerified:
		payload.Match = "full"
	case sc.IsPartiallyVerified:
		payload.Match = "partial"
	}
	if sc.FilePath != "" {
		payload.Sources = append(payload.Sources, sc.FilePath)
	}
	for _, src := range sc.AdditionalSources {
		payload.Sources = append(payload.Sources, src.FilePath)
	}
	sort.Strings(payload.Sources)
	return payload, nil
}

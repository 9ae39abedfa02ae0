package explorers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/addrlens/sourcemeta"
)

type EtherscanLikeExplorer struct {
	ChainID uint64

	Domain string
	APIKey string
	Client *http.Client
}

func NewEtherscanLikeExplorer(domain string, apiKey string) *EtherscanLikeExplorer {
	return &EtherscanLikeExplorer{
		Domain: strings.TrimRight(domain, "/"),
		APIKey: apiKey,
		Client: defaultClient(),
	}
}

func (ee *EtherscanLikeExplorer) Name() string {
	return "etherscan"
}

func (ee *EtherscanLikeExplorer) GetSourceCodeAPIURL(chainID uint64, address string) string {
	return fmt.Sprintf(
		"%s/api?chainid=%d&module=contract&action=getsourcecode&address=%s&apikey=%s",
		ee.Domain,
		chainID,
		address,
		url.QueryEscape(ee.APIKey),
	)
}

type sourceCodeResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (sr *sourceCodeResponse) IsOK() bool {
	return sr.Status == "1"
}

type sourceCodeEntry struct {
	SourceCode      string `json:"SourceCode"`
	ABI             string `json:"ABI"`
	ContractName    string `json:"ContractName"`
	CompilerVersion string `json:"CompilerVersion"`
}

func (ee *EtherscanLikeExplorer) FetchMetadata(ctx context.Context, chainID uint64, addr common.Address) (*sourcemeta.Payload, error) {
	if ee.ChainID != 0 {
		chainID = ee.ChainID
	}
	url := ee.GetSourceCodeAPIURL(chainID, addr.Hex())
	body, err := getBody(ctx, ee.Client, url)
	if err != nil {
		return nil, err
	}
	resp := sourceCodeResponse{}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal %s to source code response: %w", truncate(string(body), 200), err)
	}
	if !resp.IsOK() {
		// on error etherscan puts the reason in result as a plain string
		reason := resp.Message
		var detail string
		if json.Unmarshal(resp.Result, &detail) == nil && detail != "" {
			reason = detail
		}
		return nil, fmt.Errorf("error from etherscan: %s", reason)
	}
	entries := []sourceCodeEntry{}
	if err := json.Unmarshal(resp.Result, &entries); err != nil {
		return nil, fmt.Errorf("couldn't unmarshal etherscan source code result: %w", err)
	}
	if len(entries) == 0 || entries[0].SourceCode == "" {
		return nil, notFound(ee.Name(), addr)
	}
	entry := entries[0]
	payload := &sourcemeta.Payload{
		Backend:         ee.Name(),
		ContractName:    entry.ContractName,
		CompilerVersion: entry.CompilerVersion,
		Raw:             body,
	}
	if json.Valid([]byte(entry.ABI)) {
		payload.ABI = json.RawMessage(entry.ABI)
	}
	return payload, nil
}

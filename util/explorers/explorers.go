package explorers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	lenscommon "github.com/tranvictor/addrlens/common"
	"github.com/tranvictor/addrlens/networks"
	"github.com/tranvictor/addrlens/sourcemeta"
)

const (
	DEFAULT_SOURCIFY_SERVER = "https://sourcify.dev/server"
	HTTP_TIMEOUT            = 10 * time.Second
)

var (
	_ sourcemeta.Backend = (*SourcifyBackend)(nil)
	_ sourcemeta.Backend = (*EtherscanLikeExplorer)(nil)
	_ sourcemeta.Backend = (*BlockscoutExplorer)(nil)
)

func defaultClient() *http.Client {
	return &http.Client{Timeout: HTTP_TIMEOUT}
}

// getBody fetches url. A 404 is reported as common.ErrNotFound.
func getBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", url, lenscommon.ErrNotFound)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func notFound(backend string, addr common.Address) error {
	return fmt.Errorf("%s has no verified source for %s: %w", backend, addr.Hex(), lenscommon.ErrNotFound)
}

// BackendsFor builds every backend the network can serve: both sourcify
// match levels always, etherscan when the network has an api url and
// blockscout when it has a blockscout url.
func BackendsFor(network networks.Network, sourcifyServer string) []sourcemeta.Backend {
	result := []sourcemeta.Backend{
		NewSourcifyBackend(sourcifyServer, FullMatch),
		NewSourcifyBackend(sourcifyServer, PartialMatch),
	}
	if url := network.GetBlockExplorerAPIURL(); url != "" {
		result = append(result, NewEtherscanLikeExplorer(url, network.GetBlockExplorerAPIKey()))
	}
	if url := network.GetBlockscoutAPIURL(); url != "" {
		result = append(result, NewBlockscoutExplorer(url))
	}
	return result
}

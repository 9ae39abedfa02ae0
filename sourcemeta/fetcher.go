package sourcemeta

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	lenscommon "github.com/tranvictor/addrlens/common"
	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/util/logger"
)

// Fetcher walks a preference list of backends, first found wins.
type Fetcher struct {
	backends map[string]Backend
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewFetcher(l *zap.Logger, m *metrics.Metrics, backends ...Backend) *Fetcher {
	f := &Fetcher{
		backends: map[string]Backend{},
		log:      logger.OrNop(l).Named("sourcemeta"),
		metrics:  m,
	}
	for _, b := range backends {
		f.backends[strings.ToLower(b.Name())] = b
	}
	return f
}

func (f *Fetcher) Backend(name string) (Backend, bool) {
	b, found := f.backends[strings.ToLower(name)]
	return b, found
}

func (f *Fetcher) BackendNames() []string {
	result := make([]string, 0, len(f.backends))
	for name := range f.backends {
		result = append(result, name)
	}
	return result
}

// Fetch asks the backends in prefs order and stops at the first one that
// has the contract. A failing backend does not stop the walk, its error is
// only reported if no later backend finds the contract.
func (f *Fetcher) Fetch(ctx context.Context, chainID uint64, addr common.Address, prefs []string) Record {
	var failures []error
	for _, name := range prefs {
		b, found := f.Backend(name)
		if !found {
			failures = append(failures, &FetchError{
				Backend: name,
				Err:     fmt.Errorf("unknown backend"),
			})
			continue
		}
		start := time.Now()
		payload, err := b.FetchMetadata(ctx, chainID, addr)
		f.metrics.ObserveStage("metadata", start)
		switch {
		case err == nil && payload != nil:
			f.metrics.RecordBackendCall(b.Name(), "found")
			if payload.Backend == "" {
				payload.Backend = b.Name()
			}
			f.log.Debug("metadata found",
				zap.String("backend", b.Name()),
				zap.String("address", addr.Hex()),
			)
			return Record{Status: Found, Payload: payload}
		case err == nil || errors.Is(err, lenscommon.ErrNotFound):
			f.metrics.RecordBackendCall(b.Name(), "not_found")
		default:
			f.metrics.RecordBackendCall(b.Name(), "error")
			f.log.Warn("metadata backend failed",
				zap.String("backend", b.Name()),
				zap.String("address", addr.Hex()),
				zap.Error(err),
			)
			failures = append(failures, &FetchError{Backend: b.Name(), Err: err})
		}
	}
	if len(failures) == 0 {
		return Record{Status: NotFound}
	}
	if len(failures) == 1 {
		return Record{Status: NotFound, Err: failures[0]}
	}
	return Record{Status: NotFound, Err: errors.Join(failures...)}
}

package sourcemeta

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/util/logger"
)

const DEFAULT_FETCH_TIMEOUT = 30 * time.Second

type Options struct {
	// RetryFailed makes a reference to an entry that settled with a
	// FetchError start a new fetch. Clean negatives are never retried.
	RetryFailed bool
	// Timeout bounds one walk over the preference list.
	Timeout time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

type entry struct {
	done   chan struct{}
	record Record
}

func (e *entry) settled() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Cache holds one entry per Key for the life of the process. The first
// reference to a key starts its fetch in the background, every later
// reference attaches to that same entry.
type Cache struct {
	fetcher *Fetcher
	opts    Options
	log     *zap.Logger

	mu      sync.Mutex
	entries map[Key]*entry
}

func NewCache(fetcher *Fetcher, opts Options) *Cache {
	if opts.Timeout <= 0 {
		opts.Timeout = DEFAULT_FETCH_TIMEOUT
	}
	return &Cache{
		fetcher: fetcher,
		opts:    opts,
		log:     logger.OrNop(opts.Logger).Named("sourcemeta"),
		entries: map[Key]*entry{},
	}
}

func (c *Cache) reference(key Key, prefs []string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if found {
		if !(c.opts.RetryFailed && e.settled() && e.record.Failed()) {
			c.opts.Metrics.RecordCacheLookup("metadata", "hit")
			return e
		}
		c.log.Debug("retrying failed metadata lookup",
			zap.String("address", key.Address.Hex()),
			zap.String("preference", key.Preference),
		)
	}
	c.opts.Metrics.RecordCacheLookup("metadata", "miss")
	e = &entry{done: make(chan struct{})}
	c.entries[key] = e
	go c.fill(e, key, prefs)
	return e
}

func (c *Cache) fill(e *entry, key Key, prefs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()
	e.record = c.fetcher.Fetch(ctx, key.ChainID, key.Address, prefs)
	close(e.done)
}

func snapshot(e *entry) Record {
	if !e.settled() {
		return Record{Status: Pending}
	}
	return e.record
}

// Get never blocks. It returns a Pending record until the lookup settles.
func (c *Cache) Get(chainID uint64, addr common.Address, prefs []string) Record {
	return snapshot(c.reference(NewKey(chainID, addr, prefs), prefs))
}

// Peek returns the entry for the key without starting a lookup.
func (c *Cache) Peek(chainID uint64, addr common.Address, prefs []string) (Record, bool) {
	c.mu.Lock()
	e, found := c.entries[NewKey(chainID, addr, prefs)]
	c.mu.Unlock()
	if !found {
		return Record{}, false
	}
	return snapshot(e), true
}

// Wait blocks until the lookup settles or ctx is done.
func (c *Cache) Wait(ctx context.Context, chainID uint64, addr common.Address, prefs []string) (Record, error) {
	e := c.reference(NewKey(chainID, addr, prefs), prefs)
	select {
	case <-e.done:
		return e.record, nil
	case <-ctx.Done():
		return Record{Status: Pending}, ctx.Err()
	}
}

// GetMultiple returns one record per address. Addresses known to have no
// code are NotFound without asking any backend, addresses missing from
// presence are Pending.
func (c *Cache) GetMultiple(chainID uint64, addrs []common.Address, presence map[common.Address]bool, prefs []string) map[common.Address]Record {
	result := map[common.Address]Record{}
	for _, addr := range addrs {
		hasCode, known := presence[addr]
		switch {
		case !known:
			result[addr] = Record{Status: Pending}
		case !hasCode:
			result[addr] = Record{Status: NotFound}
		default:
			result[addr] = c.Get(chainID, addr, prefs)
		}
	}
	return result
}

// WaitMultiple is GetMultiple but waits for every contract's lookup to
// settle. Addresses missing from presence stay Pending.
func (c *Cache) WaitMultiple(ctx context.Context, chainID uint64, addrs []common.Address, presence map[common.Address]bool, prefs []string) (map[common.Address]Record, error) {
	result := c.GetMultiple(chainID, addrs, presence, prefs)

	waiting := []common.Address{}
	for addr, record := range result {
		if !record.Settled() && presence[addr] {
			waiting = append(waiting, addr)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, addr := range waiting {
		addr := addr
		g.Go(func() error {
			record, err := c.Wait(gctx, chainID, addr, prefs)
			if err != nil {
				return err
			}
			mu.Lock()
			result[addr] = record
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Package codepresence answers, for a set of addresses, whether each one
// has deployed bytecode. Answers are immutable for a given chain and are
// memoized for the life of the process, and optionally on disk.
package codepresence

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	lenscommon "github.com/tranvictor/addrlens/common"
	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/util/cache"
	"github.com/tranvictor/addrlens/util/logger"
)

// Map tells, per address, whether it has code.
type Map map[common.Address]bool

// Contracts returns the addresses of m that have code, sorted.
func (m Map) Contracts() []common.Address {
	result := []common.Address{}
	for addr, hasCode := range m {
		if hasCode {
			result = append(result, addr)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Hex()) < strings.ToLower(result[j].Hex())
	})
	return result
}

// CodeReader fetches the code of several addresses in one round trip.
// util/reader.EthReader implements it.
type CodeReader interface {
	GetCodes(ctx context.Context, addrs []common.Address) ([][]byte, error)
}

type Options struct {
	// Store persists answers across runs. Nil keeps them in memory only.
	Store   *cache.Store
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

type Checker struct {
	reader  CodeReader
	chainID uint64
	store   *cache.Store
	log     *zap.Logger
	metrics *metrics.Metrics

	group singleflight.Group
	mu    sync.RWMutex
	known map[common.Address]bool
}

func NewChecker(reader CodeReader, chainID uint64, opts Options) *Checker {
	return &Checker{
		reader:  reader,
		chainID: chainID,
		store:   opts.Store,
		log:     logger.OrNop(opts.Logger).Named("codepresence"),
		metrics: opts.Metrics,
		known:   map[common.Address]bool{},
	}
}

func (c *Checker) ChainID() uint64 {
	return c.chainID
}

func (c *Checker) lookupKnown(addr common.Address) (bool, bool) {
	c.mu.RLock()
	hasCode, found := c.known[addr]
	c.mu.RUnlock()
	if found {
		return hasCode, true
	}
	if c.store == nil {
		return false, false
	}
	// only code presence is persisted, an empty address may get code later
	hasCode, found = c.store.GetBool(cache.HasCodeKey(c.chainID, addr.Hex()))
	if !found || !hasCode {
		return false, false
	}
	c.mu.Lock()
	c.known[addr] = hasCode
	c.mu.Unlock()
	return hasCode, true
}

// Peek returns the map for addrs without any remote call. ok is false while
// at least one of them is unknown.
func (c *Checker) Peek(addrs []common.Address) (Map, bool) {
	result := Map{}
	for _, addr := range addrs {
		hasCode, found := c.lookupKnown(addr)
		if !found {
			return nil, false
		}
		result[addr] = hasCode
	}
	return result, true
}

// Check returns the map for exactly addrs. Unknown addresses are looked up
// together in one batch; concurrent checks of the same unknown set share
// that batch.
func (c *Checker) Check(ctx context.Context, addrs []common.Address) (Map, error) {
	result := Map{}
	unknown := []common.Address{}
	seen := map[common.Address]bool{}
	for _, addr := range addrs {
		if seen[addr] {
			continue
		}
		seen[addr] = true
		if hasCode, found := c.lookupKnown(addr); found {
			result[addr] = hasCode
			continue
		}
		unknown = append(unknown, addr)
	}
	if len(unknown) == 0 {
		c.metrics.RecordCacheLookup("code", "hit")
		return result, nil
	}

	sort.Slice(unknown, func(i, j int) bool {
		return strings.ToLower(unknown[i].Hex()) < strings.ToLower(unknown[j].Hex())
	})
	key := strings.Join(lenscommon.LowerAddresses(unknown), ",")

	ch := c.group.DoChan(key, func() (interface{}, error) {
		c.metrics.RecordCacheLookup("code", "miss")
		start := time.Now()
		codes, err := c.reader.GetCodes(context.WithoutCancel(ctx), unknown)
		c.metrics.ObserveStage("code", start)
		if err != nil {
			return nil, lenscommon.NewTransportError("getCode", err)
		}
		if len(codes) != len(unknown) {
			return nil, lenscommon.NewTransportError("getCode", fmt.Errorf(
				"asked for %d codes, got %d", len(unknown), len(codes),
			))
		}
		c.metrics.RecordCodeBatch(len(unknown))

		fetched := Map{}
		persisted := map[string]string{}
		for i, addr := range unknown {
			hasCode := len(codes[i]) > 0
			fetched[addr] = hasCode
			if hasCode {
				persisted[cache.HasCodeKey(c.chainID, addr.Hex())] = "true"
			}
		}
		c.mu.Lock()
		for addr, hasCode := range fetched {
			c.known[addr] = hasCode
		}
		c.mu.Unlock()
		if c.store != nil && len(persisted) > 0 {
			if err := c.store.SetMany(persisted); err != nil {
				c.log.Warn("couldn't persist code presence", zap.Error(err))
			}
		}
		return fetched, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		for addr, hasCode := range res.Val.(Map) {
			result[addr] = hasCode
		}
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

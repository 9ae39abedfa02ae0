package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	lenscommon "github.com/tranvictor/addrlens/common"
	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/util/logger"
)

const DEFAULT_LOOKUP_TIMEOUT time.Duration = 15 * time.Second

// Result is the outcome of resolving one identifier. Once resolution has
// completed exactly one of Address and Err is meaningful.
type Result struct {
	Address common.Address
	IsName  bool
	Err     error
}

func (r Result) Resolved() bool {
	return r.Err == nil
}

type Options struct {
	// Timeout bounds one naming service lookup. The lookup is shared by
	// every caller waiting on the same name, so it does not follow any
	// single caller's context.
	Timeout time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

type cacheKey struct {
	name     string
	endpoint string
}

func (k cacheKey) String() string {
	return k.endpoint + "/" + k.name
}

// AddressCache memoizes name resolutions keyed by (name, naming service
// endpoint). Concurrent lookups of the same key share one request.
// Only successful resolutions are kept; a failed name is looked up again
// the next time it is asked for.
type AddressCache struct {
	resolver NameResolver
	timeout  time.Duration
	log      *zap.Logger
	metrics  *metrics.Metrics

	group    singleflight.Group
	mu       sync.RWMutex
	resolved map[cacheKey]common.Address
}

func NewAddressCache(resolver NameResolver, opts Options) *AddressCache {
	if opts.Timeout <= 0 {
		opts.Timeout = DEFAULT_LOOKUP_TIMEOUT
	}
	return &AddressCache{
		resolver: resolver,
		timeout:  opts.Timeout,
		log:      logger.OrNop(opts.Logger).Named("identity"),
		metrics:  opts.Metrics,
		resolved: map[cacheKey]common.Address{},
	}
}

// Endpoint returns the naming service endpoint, or "" when names are not
// supported.
func (c *AddressCache) Endpoint() string {
	if c.resolver == nil {
		return ""
	}
	return c.resolver.Endpoint()
}

// SupportsNames reports whether a naming service is configured.
func (c *AddressCache) SupportsNames() bool {
	return c.resolver != nil
}

func (c *AddressCache) key(identifier string) cacheKey {
	return cacheKey{
		name:     strings.ToLower(strings.TrimSpace(identifier)),
		endpoint: c.Endpoint(),
	}
}

// Peek answers without blocking. ok is false when a name has not been
// resolved yet.
func (c *AddressCache) Peek(identifier string) (Result, bool) {
	if addr, isLiteral := Canonical(identifier); isLiteral {
		return Result{Address: addr}, true
	}
	if c.resolver == nil {
		return c.unsupported(identifier), true
	}
	c.mu.RLock()
	addr, found := c.resolved[c.key(identifier)]
	c.mu.RUnlock()
	if !found {
		return Result{IsName: true}, false
	}
	return Result{Address: addr, IsName: true}, true
}

// Resolve returns the canonical address for identifier. Literal addresses
// never reach the naming service. If ctx ends before a shared lookup
// completes, the lookup keeps going for the other waiters and its result is
// still memoized.
func (c *AddressCache) Resolve(ctx context.Context, identifier string) Result {
	identifier = strings.TrimSpace(identifier)
	if addr, isLiteral := Canonical(identifier); isLiteral {
		return Result{Address: addr}
	}
	if c.resolver == nil {
		return c.unsupported(identifier)
	}

	key := c.key(identifier)
	c.mu.RLock()
	addr, found := c.resolved[key]
	c.mu.RUnlock()
	if found {
		c.metrics.RecordCacheLookup("address", "hit")
		return Result{Address: addr, IsName: true}
	}

	ch := c.group.DoChan(key.String(), func() (interface{}, error) {
		c.metrics.RecordCacheLookup("address", "miss")
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		start := time.Now()
		addr, err := c.resolver.ResolveName(lookupCtx, identifier)
		c.metrics.ObserveStage("resolution", start)
		if err != nil {
			c.metrics.RecordNameLookup(key.endpoint, "error")
			c.log.Debug("name lookup failed",
				zap.String("name", identifier),
				zap.String("endpoint", key.endpoint),
				zap.Error(err),
			)
			return nil, err
		}
		c.metrics.RecordNameLookup(key.endpoint, "ok")

		c.mu.Lock()
		c.resolved[key] = addr
		c.mu.Unlock()
		c.log.Debug("name resolved",
			zap.String("name", identifier),
			zap.String("endpoint", key.endpoint),
			zap.String("address", addr.Hex()),
		)
		return addr, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.RecordCacheLookup("address", "shared")
		}
		if res.Err != nil {
			return Result{
				IsName: true,
				Err: &lenscommon.ResolutionError{
					Name:     identifier,
					Endpoint: key.endpoint,
					Err:      res.Err,
				},
			}
		}
		return Result{Address: res.Val.(common.Address), IsName: true}
	case <-ctx.Done():
		return Result{IsName: true, Err: fmt.Errorf("waiting for %q: %w", identifier, ctx.Err())}
	}
}

func (c *AddressCache) unsupported(identifier string) Result {
	return Result{
		IsName: true,
		Err: &lenscommon.ResolutionError{
			Name:     identifier,
			Endpoint: "none",
			Err:      fmt.Errorf("network has no naming service: %w", lenscommon.ErrNotFound),
		},
	}
}

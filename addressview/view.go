// Package addressview runs the address page pipeline: identifier to
// address, address to code presence, contract to verified metadata. Every
// navigation starts a new generation and results of older generations are
// dropped.
package addressview

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tranvictor/addrlens/codepresence"
	"github.com/tranvictor/addrlens/identity"
	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/navigation"
	"github.com/tranvictor/addrlens/networks"
	"github.com/tranvictor/addrlens/sourcemeta"
	"github.com/tranvictor/addrlens/util/generation"
	"github.com/tranvictor/addrlens/util/logger"
)

type Config struct {
	Network       networks.Network
	Addresses     *identity.AddressCache
	Code          *codepresence.Checker
	Metadata      *sourcemeta.Cache
	Preference    []string
	Canonicalizer *navigation.Canonicalizer
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

type View struct {
	cfg     Config
	session string
	log     *zap.Logger
	guard   generation.Guard

	mu      sync.Mutex
	current Snapshot
	settled chan struct{}
	subs    map[int]chan Snapshot
	nextSub int
}

func New(cfg Config) *View {
	session := uuid.NewString()
	v := &View{
		cfg:     cfg,
		session: session,
		log:     logger.OrNop(cfg.Logger).Named("addressview").With(zap.String("session", session)),
		settled: make(chan struct{}),
		subs:    map[int]chan Snapshot{},
	}
	v.current = Snapshot{Session: session}
	return v
}

func (v *View) Session() string {
	return v.session
}

// Snapshot returns the latest snapshot of the current navigation.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Subscribe delivers every published snapshot. A slow reader only misses
// intermediate snapshots, never the latest one. Call the returned func to
// stop.
func (v *View) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	ch <- v.current
	v.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
			close(ch)
		})
	}
}

// publish must be called with v.mu held.
func (v *View) publish() {
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v.current
	}
	if v.current.Settled {
		select {
		case <-v.settled:
		default:
			close(v.settled)
		}
	}
}

// Wait blocks until the current navigation settles. If a newer navigation
// starts meanwhile it waits for that one instead.
func (v *View) Wait(ctx context.Context) (Snapshot, error) {
	for {
		v.mu.Lock()
		settled := v.settled
		gen := v.current.Generation
		v.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return v.Snapshot(), ctx.Err()
		}
		snap := v.Snapshot()
		if snap.Generation == gen && snap.Settled {
			return snap, nil
		}
	}
}

// Navigate shows loc. It returns the first snapshot of the new navigation
// right away and fills in the rest in the background.
func (v *View) Navigate(loc navigation.Location) Snapshot {
	base := Snapshot{
		Session:           v.session,
		Location:          loc,
		SupportsNames:     v.cfg.Addresses.SupportsNames(),
		ResolutionPending: true,
		Code:              CodeStatus{Pending: true},
		Metadata:          sourcemeta.Record{Status: sourcemeta.Pending},
	}
	if network := v.cfg.Network; network != nil {
		base.Network = network.GetName()
		base.Testnet = network.IsTestnet()
		base.Faucets = network.GetFaucets()
	}

	var initial Snapshot
	token := v.guard.Start(loc.String(), func(token generation.Token) {
		if v.cfg.Canonicalizer != nil {
			v.cfg.Canonicalizer.Observe(loc)
		}
		initial = base
		initial.Generation = token.Gen

		v.mu.Lock()
		defer v.mu.Unlock()
		select {
		case <-v.settled:
			v.settled = make(chan struct{})
		default:
		}
		v.current = initial
		v.publish()
	})
	log := v.log.With(
		zap.Uint64("generation", token.Gen),
		zap.String("identifier", loc.Identifier),
	)
	log.Debug("navigating")
	go v.run(token, loc, log)
	return initial
}

// apply runs update on the current snapshot if token is still current.
func (v *View) apply(token generation.Token, stage string, update func(s *Snapshot)) bool {
	applied := v.guard.Do(token, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		update(&v.current)
		v.publish()
	})
	if !applied {
		v.cfg.Metrics.RecordStale(stage)
		v.log.Debug("dropping stale result",
			zap.Uint64("generation", token.Gen),
			zap.String("stage", stage),
		)
	}
	return applied
}

func (v *View) run(token generation.Token, loc navigation.Location, log *zap.Logger) {
	ctx := context.Background()

	res := v.cfg.Addresses.Resolve(ctx, loc.Identifier)
	applied := v.apply(token, "resolution", func(s *Snapshot) {
		s.ResolutionPending = false
		s.Resolution = res
		if res.Err != nil {
			s.Code = CodeStatus{}
			s.Metadata = sourcemeta.Record{Status: sourcemeta.NotFound}
			s.Settled = true
			return
		}
		s.Canonical = loc.WithIdentifier(res.Address.Hex())
	})
	if !applied || res.Err != nil {
		if res.Err != nil {
			log.Debug("identifier not resolved", zap.Error(res.Err))
		}
		return
	}
	v.canonicalize(token, loc, loc.WithIdentifier(res.Address.Hex()), log)
	addr := res.Address
	log = log.With(zap.String("address", addr.Hex()))

	hasCode, err := v.hasCode(ctx, addr)
	applied = v.apply(token, "code", func(s *Snapshot) {
		switch {
		case err != nil:
			s.Code = CodeStatus{Err: err}
			s.Metadata = sourcemeta.Record{Status: sourcemeta.NotFound}
			s.Settled = true
		case !hasCode:
			s.Code = CodeStatus{}
			s.Metadata = sourcemeta.Record{Status: sourcemeta.NotFound}
			s.Settled = true
		default:
			s.Code = CodeStatus{HasCode: true}
		}
	})
	if !applied || err != nil || !hasCode {
		if err != nil {
			log.Warn("couldn't check code presence", zap.Error(err))
		}
		return
	}

	chainID := v.cfg.Code.ChainID()
	record := v.cfg.Metadata.Get(chainID, addr, v.cfg.Preference)
	if !record.Settled() {
		if !v.apply(token, "metadata", func(s *Snapshot) { s.Metadata = record }) {
			return
		}
		record, _ = v.cfg.Metadata.Wait(ctx, chainID, addr, v.cfg.Preference)
	}
	v.apply(token, "metadata", func(s *Snapshot) {
		s.Metadata = record
		s.Settled = true
	})
	if record.Failed() {
		log.Info("no backend could serve metadata", zap.Error(record.Err))
	}
}

func (v *View) hasCode(ctx context.Context, addr common.Address) (bool, error) {
	addrs := []common.Address{addr}
	if known, ok := v.cfg.Code.Peek(addrs); ok {
		return known[addr], nil
	}
	result, err := v.cfg.Code.Check(ctx, addrs)
	if err != nil {
		return false, err
	}
	return result[addr], nil
}

// canonicalize replaces the location when the identifier as typed differs
// from the checksum address. It runs with no lock held since the navigator
// may navigate this view again.
func (v *View) canonicalize(token generation.Token, loc, target navigation.Location, log *zap.Logger) {
	if v.cfg.Canonicalizer == nil || loc.Identifier == target.Identifier {
		return
	}
	if !v.guard.Current(token) {
		v.cfg.Metrics.RecordStale("canonicalize")
		return
	}
	if v.cfg.Canonicalizer.Canonicalize(target) {
		log.Debug("location canonicalized", zap.String("location", target.String()))
	}
}

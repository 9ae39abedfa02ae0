package addressview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/addrlens/codepresence"
	lenscommon "github.com/tranvictor/addrlens/common"
	"github.com/tranvictor/addrlens/identity"
	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/navigation"
	"github.com/tranvictor/addrlens/networks"
	"github.com/tranvictor/addrlens/sourcemeta"
)

var (
	aliceAddr   = common.HexToAddress("0xabcdef0000000000000000000000000000000001")
	bobAddr     = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	accountAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

type fakeNames struct {
	mu    sync.Mutex
	names map[string]common.Address
	gates map[string]chan struct{}
	calls int32
}

func (f *fakeNames) Endpoint() string {
	return "fake"
}

func (f *fakeNames) ResolveName(ctx context.Context, name string) (common.Address, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	gate := f.gates[name]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	addr, found := f.names[strings.ToLower(name)]
	if !found {
		return common.Address{}, fmt.Errorf("%s: %w", name, lenscommon.ErrNotFound)
	}
	return addr, nil
}

type fakeCode struct {
	contracts map[common.Address]bool
	gates     map[common.Address]chan struct{}
	err       error
	calls     int32
}

func (f *fakeCode) GetCodes(ctx context.Context, addrs []common.Address) ([][]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	for _, addr := range addrs {
		if gate := f.gates[addr]; gate != nil {
			<-gate
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	result := make([][]byte, len(addrs))
	for i, addr := range addrs {
		if f.contracts[addr] {
			result[i] = []byte{0x60}
		}
	}
	return result, nil
}

type fakeBackend struct {
	verified map[common.Address]bool
	gates    map[common.Address]chan struct{}
	calls    int32
}

func (f *fakeBackend) Name() string {
	return "fake"
}

func (f *fakeBackend) FetchMetadata(ctx context.Context, chainID uint64, addr common.Address) (*sourcemeta.Payload, error) {
	atomic.AddInt32(&f.calls, 1)
	if gate := f.gates[addr]; gate != nil {
		<-gate
	}
	if !f.verified[addr] {
		return nil, lenscommon.ErrNotFound
	}
	return &sourcemeta.Payload{ContractName: "Wallet", CompilerVersion: "0.8.20"}, nil
}

type fixture struct {
	names   *fakeNames
	code    *fakeCode
	backend *fakeBackend
	history *navigation.History
	metrics *metrics.Metrics
	view    *View
}

func newFixture(t *testing.T, start string) *fixture {
	t.Helper()
	loc, err := navigation.ParseLocation(start)
	require.NoError(t, err)

	f := &fixture{
		names: &fakeNames{
			names: map[string]common.Address{
				"alice.eth": aliceAddr,
				"bob.eth":   bobAddr,
			},
			gates: map[string]chan struct{}{},
		},
		code:    &fakeCode{contracts: map[common.Address]bool{aliceAddr: true, bobAddr: true}},
		backend: &fakeBackend{verified: map[common.Address]bool{aliceAddr: true}},
		history: navigation.NewHistory(loc),
		metrics: metrics.New("test"),
	}
	f.view = New(Config{
		Network:       networks.EthereumMainnet,
		Addresses:     identity.NewAddressCache(f.names, identity.Options{Metrics: f.metrics}),
		Code:          codepresence.NewChecker(f.code, 1, codepresence.Options{Metrics: f.metrics}),
		Metadata:      sourcemeta.NewCache(sourcemeta.NewFetcher(nil, f.metrics, f.backend), sourcemeta.Options{Metrics: f.metrics}),
		Preference:    []string{"fake"},
		Canonicalizer: navigation.NewCanonicalizer(f.history, nil, f.metrics),
		Metrics:       f.metrics,
	})
	return f
}

func (f *fixture) navigate(t *testing.T, raw string) Snapshot {
	t.Helper()
	loc, err := navigation.ParseLocation(raw)
	require.NoError(t, err)
	return f.view.Navigate(loc)
}

func (f *fixture) wait(t *testing.T) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := f.view.Wait(ctx)
	require.NoError(t, err)
	return snap
}

func TestNameIsResolvedAndLocationCanonicalized(t *testing.T) {
	f := newFixture(t, "/address/alice.eth?nonce=1")

	first := f.navigate(t, "/address/alice.eth?nonce=1")
	assert.Equal(t, Loading, first.State())
	assert.Equal(t, "Address alice.eth | addrlens", first.Title())
	assert.False(t, first.Settled)

	snap := f.wait(t)
	assert.Equal(t, ContractVerified, snap.State())
	assert.True(t, snap.Resolution.IsName)
	assert.Equal(t, aliceAddr, snap.Resolution.Address)
	assert.Equal(t, "Address alice.eth | addrlens", snap.Title())
	assert.Equal(t, "Wallet", snap.ContractMetadata().Payload.ContractName)

	assert.Equal(t, 1, f.history.Replacements())
	assert.Equal(t, "/address/"+aliceAddr.Hex()+"?nonce=1", f.history.Current())
	assert.Equal(t, f.history.Current(), snap.Canonical.String())
	assert.Equal(t, []Tab{
		{Name: "Overview"},
		{Name: "Contract", Indicator: IndicatorVerified},
		{Name: "Token Approvals"},
	}, snap.Tabs())
}

func TestLiteralAddressNeverCallsResolver(t *testing.T) {
	f := newFixture(t, "/address/"+aliceAddr.Hex())
	f.navigate(t, "/address/"+aliceAddr.Hex())
	snap := f.wait(t)

	assert.EqualValues(t, 0, atomic.LoadInt32(&f.names.calls))
	assert.False(t, snap.Resolution.IsName)
	assert.Equal(t, "Address "+aliceAddr.Hex()+" | addrlens", snap.Title())
	// already canonical
	assert.Equal(t, 0, f.history.Replacements())

	lower := strings.ToLower(aliceAddr.Hex())
	f.navigate(t, "/address/"+lower+"/tokens")
	f.wait(t)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.names.calls))
	assert.Equal(t, 1, f.history.Replacements())
	assert.Equal(t, "/address/"+aliceAddr.Hex()+"/tokens", f.history.Current())
}

func TestStaleResolutionIsDropped(t *testing.T) {
	f := newFixture(t, "/address/alice.eth")
	gate := make(chan struct{})
	f.names.gates["alice.eth"] = gate

	f.navigate(t, "/address/alice.eth")
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&f.names.calls) == 1
	}, time.Second, 5*time.Millisecond)

	f.navigate(t, "/address/bob.eth")
	snap := f.wait(t)
	assert.Equal(t, bobAddr, snap.Resolution.Address)

	close(gate)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.StaleResults.WithLabelValues("resolution")) == 1
	}, time.Second, 5*time.Millisecond)

	snap = f.view.Snapshot()
	assert.Equal(t, "bob.eth", snap.Identifier())
	assert.Equal(t, bobAddr, snap.Resolution.Address)
	assert.Equal(t, 1, f.history.Replacements())
	assert.Equal(t, "/address/"+bobAddr.Hex(), f.history.Current())
}

func TestAccountSkipsMetadata(t *testing.T) {
	f := newFixture(t, "/address/"+accountAddr.Hex())
	f.navigate(t, "/address/"+accountAddr.Hex())
	snap := f.wait(t)

	assert.Equal(t, Account, snap.State())
	assert.Equal(t, sourcemeta.NotFound, snap.ContractMetadata().Status)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.backend.calls))
	assert.Equal(t, []Tab{{Name: "Overview"}, {Name: "Token Approvals"}}, snap.Tabs())
}

func TestUnverifiedContract(t *testing.T) {
	f := newFixture(t, "/address/bob.eth")
	f.navigate(t, "/address/bob.eth")
	snap := f.wait(t)

	assert.Equal(t, ContractUnverified, snap.State())
	assert.Equal(t, IndicatorUnverified, snap.Tabs()[1].Indicator)
	assert.NoError(t, snap.ContractMetadata().Err)
}

func TestUnknownName(t *testing.T) {
	f := newFixture(t, "/address/nobody.eth")
	f.navigate(t, "/address/nobody.eth")
	snap := f.wait(t)

	assert.Equal(t, NotFound, snap.State())
	var resErr *lenscommon.ResolutionError
	require.True(t, errors.As(snap.Resolution.Err, &resErr))
	assert.True(t, resErr.NameNotFound())
	assert.Contains(t, snap.NotFoundMessage(), "registered on mainnet")
	assert.Equal(t, 0, f.history.Replacements())
}

func TestCodeUnavailable(t *testing.T) {
	f := newFixture(t, "/address/alice.eth")
	f.code.err = errors.New("node down")
	f.navigate(t, "/address/alice.eth")
	snap := f.wait(t)

	assert.Equal(t, CodeUnavailable, snap.State())
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.backend.calls))
}

func TestSubscribeSeesSettledSnapshot(t *testing.T) {
	f := newFixture(t, "/address/alice.eth")
	updates, stop := f.view.Subscribe()
	defer stop()

	f.navigate(t, "/address/alice.eth")
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-updates:
			if snap.Settled {
				assert.Equal(t, ContractVerified, snap.State())
				return
			}
		case <-deadline:
			t.Fatal("no settled snapshot delivered")
		}
	}
}

func TestSnapshotJSON(t *testing.T) {
	f := newFixture(t, "/address/alice.eth")
	f.navigate(t, "/address/alice.eth")
	snap := f.wait(t)

	content, err := snap.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(content), `"state":"contract verified"`)
	assert.Contains(t, string(content), `"address":"`+aliceAddr.Hex()+`"`)
	assert.Contains(t, string(content), `"has_code":true`)
}

func TestRewriteKeepsQueryAsTyped(t *testing.T) {
	f := newFixture(t, "/address/alice.eth?z=1&a=2&flag")
	f.navigate(t, "/address/alice.eth?z=1&a=2&flag")
	snap := f.wait(t)

	assert.Equal(t, "/address/"+aliceAddr.Hex()+"?z=1&a=2&flag", f.history.Current())
	assert.Equal(t, f.history.Current(), snap.Canonical.String())
}

// navigatingRouter navigates the view again on every replace, like a
// router reacting to a location change.
type navigatingRouter struct {
	view     *View
	replaced int32
}

func (r *navigatingRouter) ReplaceLocation(path string, rawQuery string) {
	atomic.AddInt32(&r.replaced, 1)
	raw := path
	if rawQuery != "" {
		raw += "?" + rawQuery
	}
	loc, err := navigation.ParseLocation(raw)
	if err != nil {
		panic(err)
	}
	r.view.Navigate(loc)
}

func TestNavigatorMayNavigateAgain(t *testing.T) {
	f := newFixture(t, "/address/alice.eth")
	router := &navigatingRouter{}
	view := New(Config{
		Network:       networks.EthereumMainnet,
		Addresses:     identity.NewAddressCache(f.names, identity.Options{}),
		Code:          codepresence.NewChecker(f.code, 1, codepresence.Options{}),
		Metadata:      sourcemeta.NewCache(sourcemeta.NewFetcher(nil, nil, f.backend), sourcemeta.Options{}),
		Preference:    []string{"fake"},
		Canonicalizer: navigation.NewCanonicalizer(router, nil, nil),
	})
	router.view = view

	loc, err := navigation.ParseLocation("/address/alice.eth?nonce=2")
	require.NoError(t, err)
	view.Navigate(loc)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := view.Wait(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(&router.replaced))
	assert.EqualValues(t, 2, snap.Generation)
	assert.Equal(t, "/address/"+aliceAddr.Hex()+"?nonce=2", snap.Location.String())
	assert.Equal(t, ContractVerified, snap.State())
}

func TestStaleCodeCheckIsDropped(t *testing.T) {
	f := newFixture(t, "/address/"+aliceAddr.Hex())
	gate := make(chan struct{})
	f.code.gates = map[common.Address]chan struct{}{aliceAddr: gate}

	f.navigate(t, "/address/"+aliceAddr.Hex())
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&f.code.calls) == 1
	}, time.Second, 5*time.Millisecond)

	f.navigate(t, "/address/"+accountAddr.Hex())
	settled := f.wait(t)
	require.Equal(t, Account, settled.State())

	close(gate)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.StaleResults.WithLabelValues("code")) == 1
	}, time.Second, 5*time.Millisecond)

	snap := f.view.Snapshot()
	assert.Equal(t, settled.Generation, snap.Generation)
	assert.Equal(t, accountAddr, snap.Resolution.Address)
	assert.Equal(t, Account, snap.State())
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.backend.calls))
}

func TestStaleMetadataIsDropped(t *testing.T) {
	f := newFixture(t, "/address/"+aliceAddr.Hex())
	gate := make(chan struct{})
	f.backend.gates = map[common.Address]chan struct{}{aliceAddr: gate}

	f.navigate(t, "/address/"+aliceAddr.Hex())
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&f.backend.calls) == 1
	}, time.Second, 5*time.Millisecond)

	f.navigate(t, "/address/"+accountAddr.Hex())
	settled := f.wait(t)
	require.Equal(t, Account, settled.State())

	close(gate)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.StaleResults.WithLabelValues("metadata")) == 1
	}, time.Second, 5*time.Millisecond)

	snap := f.view.Snapshot()
	assert.Equal(t, settled.Generation, snap.Generation)
	assert.Equal(t, Account, snap.State())
	assert.Equal(t, sourcemeta.NotFound, snap.ContractMetadata().Status)
}

func TestConcurrentNavigateAlwaysReturnsItsOwnSnapshot(t *testing.T) {
	f := newFixture(t, "/address/alice.eth")
	identifiers := []string{"alice.eth", "bob.eth", aliceAddr.Hex(), accountAddr.Hex()}

	var wg sync.WaitGroup
	snaps := make([]Snapshot, 40)
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loc, err := navigation.ParseLocation("/address/" + identifiers[i%len(identifiers)])
			if err != nil {
				panic(err)
			}
			snaps[i] = f.view.Navigate(loc)
		}(i)
	}
	wg.Wait()

	seen := map[uint64]bool{}
	for i, snap := range snaps {
		assert.NotZero(t, snap.Generation)
		assert.Equal(t, Loading, snap.State())
		assert.Equal(t, identifiers[i%len(identifiers)], snap.Identifier())
		assert.False(t, seen[snap.Generation])
		seen[snap.Generation] = true
	}
	f.wait(t)
}

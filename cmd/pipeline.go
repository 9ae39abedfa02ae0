package cmd

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tranvictor/addrlens/addressview"
	"github.com/tranvictor/addrlens/codepresence"
	"github.com/tranvictor/addrlens/config"
	"github.com/tranvictor/addrlens/db"
	"github.com/tranvictor/addrlens/identity"
	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/navigation"
	"github.com/tranvictor/addrlens/networks"
	"github.com/tranvictor/addrlens/sourcemeta"
	"github.com/tranvictor/addrlens/util/addrbook"
	"github.com/tranvictor/addrlens/util/cache"
	"github.com/tranvictor/addrlens/util/ens"
	"github.com/tranvictor/addrlens/util/explorers"
	"github.com/tranvictor/addrlens/util/reader"
)

// pipeline holds the caches shared by every view of one process.
type pipeline struct {
	network    networks.Network
	labels     *db.LabelDB
	addresses  *identity.AddressCache
	code       *codepresence.Checker
	metadata   *sourcemeta.Cache
	preference []string
	log        *zap.Logger
	metrics    *metrics.Metrics
}

func loadLabels(l *zap.Logger) *db.LabelDB {
	labels, errs := db.NewDefaultLabelDB()
	for _, err := range errs {
		l.Warn("skipping label file", zap.Error(err))
	}
	return labels
}

// nameResolver picks the naming service for network. It returns nil when the
// network can't resolve names at all.
func nameResolver(network networks.Network, r *reader.EthReader, labels *db.LabelDB, mode string) identity.NameResolver {
	var ensResolver identity.NameResolver
	if registry, ok := network.GetENSRegistry(); ok {
		ensResolver = ens.NewResolver(r, network.GetChainID(), registry)
	}
	book := addrbook.NewNameService(labels, "labels")

	switch mode {
	case config.NAMING_ENS:
		return ensResolver
	case config.NAMING_ADDRBOOK:
		return book
	}
	if ensResolver == nil {
		return book
	}
	return identity.Chain{ensResolver, book}
}

func newPipeline(network networks.Network, l *zap.Logger, m *metrics.Metrics) (*pipeline, error) {
	preference := sourcemeta.ParsePreference(config.Backends)
	if len(preference) == 0 {
		return nil, fmt.Errorf("no verification backend given")
	}

	nodes := network.GetNodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("network %s has no nodes, set %s", network.GetName(), network.GetNodeVariableName())
	}
	ethReader := reader.NewEthReaderGeneric(nodes)
	labels := loadLabels(l)

	var store *cache.Store
	if !config.NoCache {
		store = cache.NewStore(config.CacheFile)
		l.Debug("caching code presence", zap.String("path", store.Path()))
	}

	backends := explorers.BackendsFor(network, config.SourcifyServer)
	fetcher := sourcemeta.NewFetcher(l, m, backends...)
	for _, name := range preference {
		if _, found := fetcher.Backend(name); !found {
			return nil, fmt.Errorf(
				"backend %q is not available on %s, available: %s",
				name, network.GetName(), strings.Join(fetcher.BackendNames(), ", "),
			)
		}
	}

	names := nameResolver(network, ethReader, labels, config.NamingService)

	return &pipeline{
		network: network,
		labels:  labels,
		addresses: identity.NewAddressCache(names, identity.Options{
			Timeout: config.LookupTimeout,
			Logger:  l,
			Metrics: m,
		}),
		code: codepresence.NewChecker(ethReader, network.GetChainID(), codepresence.Options{
			Store:   store,
			Logger:  l,
			Metrics: m,
		}),
		metadata: sourcemeta.NewCache(fetcher, sourcemeta.Options{
			RetryFailed: config.RetryFailedMetadata,
			Logger:      l,
			Metrics:     m,
		}),
		preference: preference,
		log:        l,
		metrics:    m,
	}, nil
}

func (p *pipeline) newView(nav navigation.Navigator) *addressview.View {
	return addressview.New(addressview.Config{
		Network:       p.network,
		Addresses:     p.addresses,
		Code:          p.code,
		Metadata:      p.metadata,
		Preference:    p.preference,
		Canonicalizer: navigation.NewCanonicalizer(nav, p.log, p.metrics),
		Logger:        p.log,
		Metrics:       p.metrics,
	})
}

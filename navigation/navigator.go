package navigation

import (
	"sync"

	"go.uber.org/zap"

	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/util/logger"
)

// Navigator replaces the current location without adding a history entry.
// rawQuery is passed on exactly as the location carried it.
type Navigator interface {
	ReplaceLocation(path string, rawQuery string)
}

// Canonicalizer asks its navigator to show the canonical form of a
// location. Asking twice in a row for the same target replaces once.
type Canonicalizer struct {
	nav     Navigator
	log     *zap.Logger
	metrics *metrics.Metrics

	mu   sync.Mutex
	last string
}

func NewCanonicalizer(nav Navigator, l *zap.Logger, m *metrics.Metrics) *Canonicalizer {
	return &Canonicalizer{
		nav:     nav,
		log:     logger.OrNop(l).Named("navigation"),
		metrics: m,
	}
}

// Observe records loc as the location currently shown, so a later
// Canonicalize to the same location is a no-op and one to any other
// location replaces it.
func (c *Canonicalizer) Observe(loc Location) {
	c.mu.Lock()
	c.last = loc.String()
	c.mu.Unlock()
}

// Canonicalize replaces the location with target. It reports whether a
// replacement was issued.
func (c *Canonicalizer) Canonicalize(target Location) bool {
	rendered := target.String()
	c.mu.Lock()
	if c.last == rendered {
		c.mu.Unlock()
		return false
	}
	c.last = rendered
	c.mu.Unlock()

	c.log.Debug("replacing location", zap.String("location", rendered))
	c.metrics.RecordReplacement()
	c.nav.ReplaceLocation(target.Path(), target.RawQuery)
	return true
}

// History is an in-memory navigator.
type History struct {
	mu           sync.Mutex
	entries      []string
	replacements int
}

func NewHistory(initial Location) *History {
	return &History{entries: []string{initial.String()}}
}

// Push adds a new entry, like following a link.
func (h *History) Push(loc Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, loc.String())
}

func (h *History) ReplaceLocation(path string, rawQuery string) {
	rendered := path
	if rawQuery != "" {
		rendered = path + "?" + rawQuery
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replacements++
	if len(h.entries) == 0 {
		h.entries = append(h.entries, rendered)
		return
	}
	h.entries[len(h.entries)-1] = rendered
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.entries...)
}

func (h *History) Replacements() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.replacements
}

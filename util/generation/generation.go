// Package generation tracks which input a piece of asynchronous work was
// issued for, so results that arrive after the input changed can be
// dropped instead of overwriting fresher state.
package generation

import "sync"

// Token identifies one issued attempt: the generation counter at the time
// and the input it was issued for.
type Token struct {
	Gen   uint64
	Input string
}

// Guard hands out monotonically increasing tokens. Only the most recently
// issued token is current.
type Guard struct {
	mu      sync.Mutex
	gen     uint64
	current string
}

// Start issues a token for input and runs start with it before a later
// Start can supersede it. Every token issued before becomes stale.
func (g *Guard) Start(input string, start func(Token)) Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.current = input
	t := Token{Gen: g.gen, Input: input}
	start(t)
	return t
}

// Current reports whether t is still the latest token.
func (g *Guard) Current(t Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t.Gen == g.gen && t.Input == g.current
}

// Do runs apply while holding the guard if t is still current, and reports
// whether it ran. Callers use it to make the staleness check and the state
// update atomic with respect to a concurrent Start.
func (g *Guard) Do(t Token, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.Gen != g.gen || t.Input != g.current {
		return false
	}
	apply()
	return true
}

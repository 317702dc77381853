package node

import "sync"

// CommandInterestGenerator owns the monotonic timestamp a command
// Interest's signed suffix requires (spec §4.4.2, §8 invariant 7).
// Grounded on the original ndn-cpp's standalone
// NfdCommandInterestGenerator (util/nfd-command-interest-generator.hpp):
// register_prefix and any other command Interest a caller signs should
// share one generator instance so timestamps never regress even if the
// wall clock does. Node.CommandInterestGenerator exposes the one it
// owns so a KeyChain can be wired to it.
type CommandInterestGenerator struct {
	mu            sync.Mutex
	lastTimestamp int64
	clock         Clock
}

// NewCommandInterestGenerator builds a generator using the real clock.
func NewCommandInterestGenerator() *CommandInterestGenerator {
	return NewCommandInterestGeneratorWithClock(realClock{})
}

// NewCommandInterestGeneratorWithClock is NewCommandInterestGenerator
// with an injectable Clock, for deterministic tests.
func NewCommandInterestGeneratorWithClock(clock Clock) *CommandInterestGenerator {
	return &CommandInterestGenerator{clock: clock}
}

// NextTimestamp returns a millisecond timestamp strictly greater than
// every timestamp this generator has returned before: max(now_ms,
// last+1) per spec §4.4.2.
func (g *CommandInterestGenerator) NextTimestamp() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.clock.Now().UnixMilli()
	if now <= g.lastTimestamp {
		now = g.lastTimestamp + 1
	}
	g.lastTimestamp = now
	return now
}

// Nonce returns a fresh nonce for the command Interest's Nonce
// component (spec §6: at least 4 bytes).
func (g *CommandInterestGenerator) Nonce() []byte {
	return g.clock.Nonce()
}

// CommandInterestGenerator returns the generator this Node owns, so a
// command-signing KeyChain can be constructed against it and share its
// monotonic timestamp sequence with any registration this Node performs.
func (n *Node) CommandInterestGenerator() *CommandInterestGenerator {
	return n.cmdGen
}

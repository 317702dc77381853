package node

import (
	"crypto/rand"
	"sync"
	"time"
)

// Clock is the time source Node uses for delayed-call scheduling and
// Interest nonce generation. It is grounded on the teacher's
// std/engine/basic split between a real ndn.Timer and a DummyTimer used
// for deterministic tests: New uses the real clock; tests build a Node
// with NewWithClock and a *VirtualClock they step by hand.
type Clock interface {
	Now() time.Time
	Nonce() []byte
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Nonce() []byte {
	buf := make([]byte, 8)
	rand.Read(buf) // crypto/rand.Read always succeeds per its documented contract
	return buf
}

// VirtualClock is a Clock whose Now() only moves when the test tells it
// to, so timeout behavior can be asserted without sleeping (spec §8
// scenario S3). It starts at the Unix epoch, matching the teacher's
// DummyTimer.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewVirtualClock builds a VirtualClock fixed at the Unix epoch.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{now: time.Unix(0, 0).UTC()}
}

func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. It does not itself run any
// delayed calls; call Node.ProcessEvents afterward to do that.
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *VirtualClock) Nonce() []byte {
	return []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
}

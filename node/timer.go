package node

import (
	"sort"
	"time"
)

// delayedCall is one entry in Node's timer queue (spec §4.4.3).
type delayedCall struct {
	callTime time.Time
	callback func()
}

// CallLater schedules callback to run no earlier than delay from now, on
// some future ProcessEvents call. It returns a cancel function; calling
// it after the callback has already run is a harmless no-op.
//
// This is the public replacement for the source's "/local/timeout" magic
// prefix (spec §9 design notes): rather than smuggling a delayed call
// through express_interest with a sentinel Name that is matched but never
// sent, callers that want a bare timer use this directly.
func (n *Node) CallLater(delay time.Duration, callback func()) (cancel func()) {
	call := &delayedCall{
		callTime: n.clock.Now().Add(delay),
		callback: callback,
	}
	n.insertDelayedCall(call)
	return func() { n.cancelDelayedCall(call) }
}

// insertDelayedCall does a sorted insert on callTime, so
// runDueDelayedCalls only ever needs to look at the front of the slice
// (spec §4.4.3).
func (n *Node) insertDelayedCall(call *delayedCall) {
	i := sort.Search(len(n.delayed), func(i int) bool {
		return n.delayed[i].callTime.After(call.callTime)
	})
	n.delayed = append(n.delayed, nil)
	copy(n.delayed[i+1:], n.delayed[i:])
	n.delayed[i] = call
}

func (n *Node) cancelDelayedCall(call *delayedCall) {
	for i, c := range n.delayed {
		if c == call {
			n.delayed = append(n.delayed[:i], n.delayed[i+1:]...)
			return
		}
	}
}

// runDueDelayedCalls drains every call whose time has come, in deadline
// order, removing each one from the queue before running its callback
// so a callback that reschedules itself is safe (spec §4.4.3, §5
// ordering guarantees).
func (n *Node) runDueDelayedCalls() {
	now := n.clock.Now()
	for len(n.delayed) > 0 && !n.delayed[0].callTime.After(now) {
		call := n.delayed[0]
		n.delayed = n.delayed[1:]
		n.runCallback("delayedCall", call.callback)
	}
}

func (n *Node) runCallback(where string, f func()) {
	defer n.recoverInCallback(where)
	f()
}

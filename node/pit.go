package node

import (
	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/log"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/spec2022"
)

// OnData is invoked once per matching PIT entry when a Data packet
// satisfies it (spec §4.4.1).
type OnData func(interest *ndn.Interest, data *ndn.Data)

// OnTimeout is invoked when a pending interest's lifetime elapses before
// a matching Data arrives, unless it was removed first.
type OnTimeout func(interest *ndn.Interest)

// pitEntry is one row of the Pending Interest Table (spec §4.4.4's
// per-Interest state machine: Armed/InFlight collapse into "not
// removed", Satisfied/TimedOut/Cancelled are all terminal and imply the
// entry has already been spliced out).
type pitEntry struct {
	id        uint64
	interest  *ndn.Interest
	onData    OnData
	onTimeout OnTimeout
	removed   bool
}

// ExpressInterest encodes and sends interest, arms a PIT entry keyed on
// its Name, and — if the Interest carries a lifetime — schedules a
// delayed call to fire onTimeout unless the entry is removed first
// (spec §4.4's express_interest). It returns the PIT id.
func (n *Node) ExpressInterest(interest *ndn.Interest, onData OnData, onTimeout OnTimeout) (uint64, error) {
	if interest.Nonce == ([4]byte{}) {
		copy(interest.Nonce[:], n.clock.Nonce())
	}

	wire, err := spec2022.EncodeInterest(interest)
	if err != nil {
		return 0, err
	}
	if len(wire) > ndn.MaxNdnPacketSize {
		return 0, ndn.ErrPacketTooLarge{Size: len(wire)}
	}

	id := n.nextEntryID()
	copied := *interest
	entry := &pitEntry{id: id, interest: &copied, onData: onData, onTimeout: onTimeout}

	n.pitByID[id] = entry
	n.pit.insert(copied.Name, entry)

	if lifetime, present := interest.Lifetime(); present {
		n.CallLater(lifetime, func() { n.processInterestTimeout(entry) })
	}

	if err := n.transport.Send(enc.Wire{wire}); err != nil {
		return id, err
	}
	return id, nil
}

// RemovePendingInterest looks the entry up by id and removes every entry
// with that id from the PIT node for its Name (the id is unique, but the
// removal is defensive per spec §4.4's remove_pending_interest). The
// entry is tombstoned first so
// a timeout delayed call that is already queued becomes a no-op.
func (n *Node) RemovePendingInterest(id uint64) {
	entry, ok := n.pitByID[id]
	if !ok {
		log.Debug(n, "RemovePendingInterest: id not found", "id", id)
		return
	}
	entry.removed = true
	delete(n.pitByID, id)
	n.pit.removeIf(entry.interest.Name, func(e *pitEntry) bool { return e.id == id })
}

// processInterestTimeout is the delayed-call callback armed by
// ExpressInterest. If the entry was already removed (satisfied or
// explicitly cancelled), it is a no-op (spec §4.4.4).
func (n *Node) processInterestTimeout(entry *pitEntry) {
	if entry.removed {
		return
	}
	entry.removed = true
	delete(n.pitByID, entry.id)
	n.pit.removeIf(entry.interest.Name, func(e *pitEntry) bool { return e.id == entry.id })

	if entry.onTimeout != nil {
		n.runCallback("onTimeout", func() { entry.onTimeout(entry.interest) })
	}
}

// dispatchData implements the Data half of spec §4.4.1: every PIT entry
// whose stored Interest's name is a prefix of data.Name is collected,
// tombstoned, spliced out, and then has its onData invoked — all before
// any entry for a Data decoded afterward begins (spec §5 ordering
// guarantee).
func (n *Node) dispatchData(data *ndn.Data) {
	matches := n.pit.collectPrefixesOf(data.Name)
	var fired []*pitEntry
	for _, entry := range matches {
		if entry.removed {
			continue
		}
		if !entry.interest.MatchesName(data.Name) {
			continue
		}
		entry.removed = true
		delete(n.pitByID, entry.id)
		fired = append(fired, entry)
	}
	for _, entry := range fired {
		n.pit.removeIf(entry.interest.Name, func(e *pitEntry) bool { return e.id == entry.id })
	}
	for _, entry := range fired {
		if entry.onData == nil {
			continue
		}
		e := entry
		n.runCallback("onData", func() { e.onData(e.interest, data) })
	}
}

package node

import (
	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/face"
	"github.com/ndn-go/corendn/log"
	"github.com/ndn-go/corendn/ndn"
)

// OnInterest is invoked once per matching Interest Filter Table entry
// when an Interest arrives (spec §4.4.1).
type OnInterest func(prefix enc.Name, interest *ndn.Interest, transport face.Transport, filterID uint64, filter ndn.InterestFilter)

// iftEntry is one row of the Interest Filter Table.
type iftEntry struct {
	id       uint64
	prefix   enc.Name
	filter   ndn.InterestFilter
	callback OnInterest
}

// SetInterestFilter arms filter so that a matching inbound Interest
// invokes onInterest; it performs no network operation (spec §4.4). It
// returns the filter id, usable with UnsetInterestFilter.
func (n *Node) SetInterestFilter(filter ndn.InterestFilter, onInterest OnInterest) uint64 {
	id := n.nextEntryID()
	entry := &iftEntry{id: id, prefix: filter.Prefix, filter: filter, callback: onInterest}
	n.iftByID[id] = entry
	n.ift.insert(filter.Prefix, entry)
	return id
}

// UnsetInterestFilter removes every IFT entry with the given id (the id
// is unique, but the scan is defensive per spec §4.4's
// unset_interest_filter).
func (n *Node) UnsetInterestFilter(id uint64) {
	entry, ok := n.iftByID[id]
	if !ok {
		log.Debug(n, "UnsetInterestFilter: id not found", "id", id)
		return
	}
	delete(n.iftByID, id)
	n.ift.removeIf(entry.prefix, func(e *iftEntry) bool { return e.id == id })
}

// dispatchInterest implements the Interest half of spec §4.4.1: every
// IFT entry whose filter matches interest.Name is invoked, in no
// particular relative order (filters are independent subscriptions, not
// a competing resource like the PIT).
func (n *Node) dispatchInterest(interest *ndn.Interest) {
	for _, entry := range n.ift.collectPrefixesOf(interest.Name) {
		if !entry.filter.DoesMatch(interest.Name) {
			continue
		}
		e := entry
		n.runCallback("onInterest", func() {
			e.callback(e.prefix, interest, n.transport, e.id, e.filter)
		})
	}
}

package sync_test

import (
	"testing"
	"time"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/face"
	"github.com/ndn-go/corendn/node"
	"github.com/ndn-go/corendn/spec2022"
	"github.com/ndn-go/corendn/sync"
	"github.com/stretchr/testify/require"
)

// pendingReq is one Interest a busForwarder is holding, waiting for a
// Data that satisfies it by exact name — a minimal stand-in for the NFD
// PIT that normally keeps a ChronoSync participant's long-standing sync
// Interest alive until a peer answers it (spec §1 puts the forwarder out
// of scope for the library itself; tests need something in its place).
type pendingReq struct {
	name enc.Name
	from int
}

// busForwarder wires N MemTransports together: every Interest one face
// sends is broadcast to the others and recorded as pending; every Data
// is routed back to whichever face(s) are still waiting on a matching
// name.
type busForwarder struct {
	faces []*face.MemTransport
	pit   []pendingReq
}

func (b *busForwarder) pump() {
	for i, f := range b.faces {
		for _, wire := range f.Sent() {
			if len(wire) == 0 {
				continue
			}
			switch enc.TLNum(wire[0]) {
			case spec2022.TypeInterest:
				it, err := spec2022.DecodeInterest(wire)
				if err != nil {
					continue
				}
				b.pit = append(b.pit, pendingReq{name: it.Name, from: i})
				for j, other := range b.faces {
					if j != i {
						other.Inject(wire)
					}
				}
			case spec2022.TypeData:
				d, _, _, err := spec2022.DecodeData(wire)
				if err != nil {
					continue
				}
				kept := b.pit[:0]
				for _, p := range b.pit {
					if p.from != i && p.name.Equal(d.Name) {
						b.faces[p.from].Inject(wire)
						continue
					}
					kept = append(kept, p)
				}
				b.pit = kept
			}
		}
	}
}

func mustName(t *testing.T, uri string) enc.Name {
	t.Helper()
	n, err := enc.ParseName(uri)
	require.NoError(t, err)
	return n
}

func TestChronoSyncConvergence(t *testing.T) {
	clock := node.NewVirtualClock()
	ta := face.NewMemTransport(true)
	tb := face.NewMemTransport(true)

	nodeA, err := node.NewWithClock(ta, face.ConnectionInfo{Network: "mem"}, clock)
	require.NoError(t, err)
	nodeB, err := node.NewWithClock(tb, face.ConnectionInfo{Network: "mem"}, clock)
	require.NoError(t, err)

	bus := &busForwarder{faces: []*face.MemTransport{ta, tb}}

	syncPrefix := mustName(t, "/ndn/broadcast")
	prefixA := mustName(t, "/ndn/broadcast/room/alice")
	prefixB := mustName(t, "/ndn/broadcast/room/bob")

	var aStates, bStates []sync.SyncState
	csA := sync.New(nodeA, syncPrefix, "room", prefixA, 1, nil, func(s []sync.SyncState, _ bool) {
		aStates = append(aStates, s...)
	})
	csB := sync.New(nodeB, syncPrefix, "room", prefixB, 1, nil, func(s []sync.SyncState, _ bool) {
		bStates = append(bStates, s...)
	})

	drive := func(rounds int) {
		for i := 0; i < rounds; i++ {
			nodeA.ProcessEvents()
			nodeB.ProcessEvents()
			bus.pump()
		}
	}

	// Let both standing sync Interests (at the same initial empty-tree
	// digest) reach each other and absorb.
	drive(4)

	csA.PublishNextSequenceNo()
	csB.PublishNextSequenceNo()

	// Give the unknown-digest settle window (2s) and the resulting
	// recovery round trip room to run.
	for i := 0; i < 4; i++ {
		drive(4)
		clock.Advance(600 * time.Millisecond)
	}
	drive(8)

	require.ElementsMatch(t, csA.Entries(), csB.Entries(), "both participants must converge to the same digest tree")
	require.Equal(t, csA.RootDigest(), csB.RootDigest())

	entries := csA.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, uint64(1), e.Seqno)
	}
}

func TestChronoSyncAbsorbsMatchingDigest(t *testing.T) {
	clock := node.NewVirtualClock()
	ta := face.NewMemTransport(true)
	tb := face.NewMemTransport(true)

	nodeA, err := node.NewWithClock(ta, face.ConnectionInfo{Network: "mem"}, clock)
	require.NoError(t, err)
	nodeB, err := node.NewWithClock(tb, face.ConnectionInfo{Network: "mem"}, clock)
	require.NoError(t, err)

	bus := &busForwarder{faces: []*face.MemTransport{ta, tb}}
	syncPrefix := mustName(t, "/ndn/broadcast")

	onSync := func([]sync.SyncState, bool) {
		t.Fatal("no update was ever published; onSync must not fire")
	}
	sync.New(nodeA, syncPrefix, "quiet", mustName(t, "/a"), 1, nil, onSync)
	sync.New(nodeB, syncPrefix, "quiet", mustName(t, "/b"), 1, nil, onSync)

	for i := 0; i < 4; i++ {
		nodeA.ProcessEvents()
		nodeB.ProcessEvents()
		bus.pump()
	}
}

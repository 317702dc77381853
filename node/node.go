// Package node implements the single-threaded, cooperative event engine
// that drives a Transport on behalf of an application: the Pending
// Interest Table, Interest Filter Table, Registered Prefix Table, and
// delayed-call queue (spec §4.4, §5). All table mutation happens on
// whatever goroutine calls ProcessEvents or one of the other public
// entry points; there are no locks and no re-entrant dispatch.
package node

import (
	"fmt"
	"sync/atomic"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/face"
	"github.com/ndn-go/corendn/log"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/spec2022"
)

// Node is the client-library core: a Transport plus the tables and
// timer queue spec §4.4 describes. The zero value is not usable; build
// one with New.
type Node struct {
	transport face.Transport
	connInfo  face.ConnectionInfo

	nextID atomic.Uint64

	pit     *nameTrie[*pitEntry]
	pitByID map[uint64]*pitEntry

	ift     *nameTrie[*iftEntry]
	iftByID map[uint64]*iftEntry

	rpt []*rptEntry

	delayed []*delayedCall

	cmdGen *CommandInterestGenerator
	clock  Clock
}

// New builds a Node over transport, dialing info immediately, using the
// real system clock. The returned Node owns transport exclusively
// (spec §5): no other caller should invoke its methods directly
// afterward.
func New(transport face.Transport, info face.ConnectionInfo) (*Node, error) {
	return NewWithClock(transport, info, realClock{})
}

// NewWithClock is New with an injectable Clock, for tests that need to
// advance time deterministically (spec §8 S3/S4) via a *VirtualClock.
func NewWithClock(transport face.Transport, info face.ConnectionInfo, clock Clock) (*Node, error) {
	n := &Node{
		transport: transport,
		connInfo:  info,
		pit:       newNameTrie[*pitEntry](),
		pitByID:   make(map[uint64]*pitEntry),
		ift:       newNameTrie[*iftEntry](),
		iftByID:   make(map[uint64]*iftEntry),
		cmdGen:    NewCommandInterestGeneratorWithClock(clock),
		clock:     clock,
	}
	if err := transport.Connect(info, n.onReceivedElement); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) String() string {
	return fmt.Sprintf("node(%s)", n.transport)
}

// nextEntryID returns a fresh id: never 0, never repeated within this
// Node's lifetime (spec §8 invariant 6). Plain atomic add suffices per §5's
// note that single-threaded implementations may also use a bare
// counter; this one happens to be safe for concurrent callers too.
func (n *Node) nextEntryID() uint64 {
	return n.nextID.Add(1)
}

// PutData encodes and sends data. It fails with ndn.ErrPacketTooLarge
// before ever touching the transport if the encoding exceeds
// ndn.MaxNdnPacketSize.
func (n *Node) PutData(data *ndn.Data) error {
	wire, _, _, err := spec2022.EncodeData(data)
	if err != nil {
		return err
	}
	if len(wire) > ndn.MaxNdnPacketSize {
		return ndn.ErrPacketTooLarge{Size: len(wire)}
	}
	return n.transport.Send(enc.Wire{wire})
}

// ProcessEvents drives the transport and the delayed-call queue exactly
// once (spec §4.4's process_events). Callers poll this on their own
// schedule; there is no background goroutine doing it for them.
func (n *Node) ProcessEvents() {
	n.transport.ProcessEvents()
	n.runDueDelayedCalls()
}

// onReceivedElement is the Transport's ElementListener: it decodes
// exactly one framed element and dispatches it (spec §4.4.1).
func (n *Node) onReceivedElement(elem []byte) {
	defer n.recoverInCallback("onReceivedElement")

	if len(elem) == 0 {
		return
	}
	// Interest (0x05) and Data (0x06) both encode their outer TYPE in a
	// single byte, so peeking elem[0] is enough to tell them apart
	// without a full parse.
	switch enc.TLNum(elem[0]) {
	case spec2022.TypeInterest:
		interest, err := spec2022.DecodeInterest(elem)
		if err != nil {
			log.Warn(n, "Dropping malformed Interest", "err", err)
			return
		}
		n.dispatchInterest(interest)
	case spec2022.TypeData:
		data, _, _, err := spec2022.DecodeData(elem)
		if err != nil {
			log.Warn(n, "Dropping malformed Data", "err", err)
			return
		}
		n.dispatchData(data)
	default:
		log.Warn(n, "Dropping element of unrecognized outer type", "type", elem[0])
	}
}

// recoverInCallback catches a panicking application callback so it
// cannot tear down the reactor (spec §4.4's failure semantics:
// "Callback exceptions are caught and logged; they must not propagate
// into the event loop").
func (n *Node) recoverInCallback(where string) {
	if r := recover(); r != nil {
		log.Error(n, "Recovered from panic in callback", "where", where, "panic", r)
	}
}

package face

import (
	"github.com/ndn-go/corendn/elemreader"
	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
)

// MemTransport is an in-memory loopback Transport with no real I/O,
// intended for tests that drive the Node engine directly: Inject feeds
// bytes as if they arrived from a peer, and Sent drains what the Node
// wrote out.
type MemTransport struct {
	local     bool
	connected bool
	reader    *elemreader.Reader
	onElement ElementListener
	sent      [][]byte
	pending   [][]byte
}

// NewMemTransport builds a loopback Transport. local mirrors whether the
// simulated peer is the same host, for prefix-registration lifetimes.
func NewMemTransport(local bool) *MemTransport {
	return &MemTransport{local: local, reader: elemreader.NewReader()}
}

func (t *MemTransport) String() string { return "mem-transport" }

func (t *MemTransport) IsLocal() bool { return t.local }

func (t *MemTransport) IsConnected() bool { return t.connected }

func (t *MemTransport) Connect(info ConnectionInfo, onElement ElementListener) error {
	t.connected = true
	t.onElement = onElement
	return nil
}

func (t *MemTransport) Send(wire enc.Wire) error {
	if !t.connected {
		return ndn.ErrTransportDisconnected
	}
	t.sent = append(t.sent, wire.Join())
	return nil
}

func (t *MemTransport) Close() error {
	t.connected = false
	return nil
}

// Inject queues raw bytes as if received from the peer; they are framed
// and dispatched to the listener on the next ProcessEvents call.
func (t *MemTransport) Inject(chunk []byte) {
	t.pending = append(t.pending, chunk)
}

// ProcessEvents feeds any injected bytes through the element reader.
func (t *MemTransport) ProcessEvents() {
	pending := t.pending
	t.pending = nil
	for _, chunk := range pending {
		t.reader.Feed(chunk, func(elem []byte) {
			if t.onElement != nil {
				t.onElement(elem)
			}
		})
	}
}

// Sent drains and returns every wire this transport has had sent through
// it since the last call.
func (t *MemTransport) Sent() [][]byte {
	out := t.sent
	t.sent = nil
	return out
}

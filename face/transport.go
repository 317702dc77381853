// Package face implements the Transport boundary the Node engine drives
// cooperatively (spec §4.3): UNIX-domain and TCP stream sockets, plus an
// in-memory loopback used by tests.
package face

import "github.com/ndn-go/corendn/enc"

// ElementListener receives exactly one complete, framed wire element at a
// time (see elemreader), in the order the peer wrote them.
type ElementListener func(elem []byte)

// ConnectionInfo names what a Transport connects to. Exactly one of the
// fields is meaningful per Transport variant; see each constructor.
type ConnectionInfo struct {
	Network string // "unix", "tcp", or "mem"
	Address string // socket path, or host:port
}

// Transport is the capability set the Node engine requires of the
// underlying byte channel (spec §4.3). A single Transport is
// single-threaded: the Node calls into it cooperatively from
// ProcessEvents, never concurrently with itself.
type Transport interface {
	// Connect dials the transport and arms the element listener. It does
	// not block waiting for data to arrive; received bytes are buffered
	// until ProcessEvents is called.
	Connect(info ConnectionInfo, onElement ElementListener) error

	// Send writes a fully encoded wire element. It returns
	// ndn.ErrTransportDisconnected if not connected.
	Send(wire enc.Wire) error

	// IsConnected reports whether Connect succeeded and Close has not
	// been called since.
	IsConnected() bool

	// IsLocal reports whether this transport talks to a forwarder on the
	// same host, which determines the registration prefix/lifetime used
	// in Node's prefix-registration protocol (spec §4.4.2).
	IsLocal() bool

	// ProcessEvents drains whatever bytes have arrived since the last
	// call, feeding complete elements to the listener registered in
	// Connect. It never blocks.
	ProcessEvents()

	// Close releases the underlying socket. Safe to call more than once.
	Close() error

	String() string
}

package face

import (
	"fmt"
	"net"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/ndn-go/corendn/elemreader"
	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/log"
	"github.com/ndn-go/corendn/ndn"
)

// streamSockBuf is the SO_SNDBUF/SO_RCVBUF size applied to UNIX and TCP
// stream sockets: large enough to absorb a burst of Interests/Data ahead
// of a slow ProcessEvents poller without the kernel throttling the
// forwarder's writer.
const streamSockBuf = 1 << 20

// StreamTransport is a Transport over a UNIX-domain or TCP stream socket.
// Reading happens on a background goroutine that only ever hands raw bytes
// across a channel; all TLV framing and listener dispatch happens inside
// ProcessEvents on the caller's goroutine, preserving the single-threaded
// cooperative model the Node engine requires.
type StreamTransport struct {
	network string
	local   bool

	mu        sync.Mutex
	conn      net.Conn
	connected bool

	reader    *elemreader.Reader
	onElement ElementListener

	chunks chan []byte
	errs   chan error
}

// NewUnixTransport builds a Transport that dials a UNIX-domain socket at
// path. UNIX-domain sockets always talk to a local forwarder.
func NewUnixTransport(path string) *StreamTransport {
	return newStreamTransport("unix", path, true)
}

// NewTCPTransport builds a Transport that dials a TCP host:port. local
// controls whether the Node treats it as a local-forwarder connection for
// the purposes of prefix-registration lifetimes (spec §4.4.2).
func NewTCPTransport(addr string, local bool) *StreamTransport {
	return newStreamTransport("tcp", addr, local)
}

func newStreamTransport(network, addr string, local bool) *StreamTransport {
	return &StreamTransport{
		network: network,
		local:   local,
		reader:  elemreader.NewReader(),
		chunks:  make(chan []byte, 64),
		errs:    make(chan error, 1),
	}
}

func (t *StreamTransport) String() string {
	return fmt.Sprintf("stream-transport(%s)", t.network)
}

func (t *StreamTransport) IsLocal() bool { return t.local }

func (t *StreamTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Connect dials the socket and starts the background reader goroutine.
func (t *StreamTransport) Connect(info ConnectionInfo, onElement ElementListener) error {
	conn, err := net.Dial(t.network, info.Address)
	if err != nil {
		return err
	}
	tuneSockBuffers(conn)

	t.mu.Lock()
	t.conn = conn
	t.connected = true
	t.onElement = onElement
	t.mu.Unlock()

	go t.readLoop(conn)
	return nil
}

// tuneSockBuffers raises the kernel send/receive buffer sizes on conn's
// underlying file descriptor, best-effort. conn must implement
// syscall.Conn, which both *net.UnixConn and *net.TCPConn do; anything
// else is left alone.
func tuneSockBuffers(conn net.Conn) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return
	}
	raw.Control(func(fd uintptr) {
		unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, streamSockBuf)
		unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, streamSockBuf)
	})
}

func (t *StreamTransport) readLoop(conn net.Conn) {
	buf := make([]byte, 8800)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			t.chunks <- chunk
		}
		if err != nil {
			select {
			case t.errs <- err:
			default:
			}
			return
		}
	}
}

// ProcessEvents drains whatever chunks have arrived since the last call
// and feeds them through the element reader. It never blocks.
func (t *StreamTransport) ProcessEvents() {
	for {
		select {
		case chunk := <-t.chunks:
			if err := t.reader.Feed(chunk, func(elem []byte) {
				if t.onElement != nil {
					t.onElement(elem)
				}
			}); err != nil {
				log.Warn(t, "Malformed element on wire, dropping connection", "err", err)
				t.Close()
				return
			}
		case err := <-t.errs:
			log.Warn(t, "Transport read error", "err", err)
			t.Close()
			return
		default:
			return
		}
	}
}

func (t *StreamTransport) Send(wire enc.Wire) error {
	t.mu.Lock()
	conn, connected := t.conn, t.connected
	t.mu.Unlock()
	if !connected {
		return ndn.ErrTransportDisconnected
	}
	_, err := conn.Write(wire.Join())
	return err
}

func (t *StreamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return nil
	}
	t.connected = false
	return t.conn.Close()
}

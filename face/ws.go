package face

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ndn-go/corendn/elemreader"
	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/log"
	"github.com/ndn-go/corendn/ndn"
)

// WebSocketTransport is a Transport over a WebSocket connection, the third
// real Transport variant the pack's browser-facing forwarder clients use
// alongside UNIX and TCP.
type WebSocketTransport struct {
	url   string
	local bool

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	onElement ElementListener
	reader    *elemreader.Reader

	msgs chan []byte
	errs chan error
}

// NewWebSocketTransport builds a Transport that dials url (e.g.
// "ws://host:9696/"). local mirrors whether the forwarder lives on the
// same host.
func NewWebSocketTransport(url string, local bool) *WebSocketTransport {
	return &WebSocketTransport{
		url:    url,
		local:  local,
		reader: elemreader.NewReader(),
		msgs:   make(chan []byte, 64),
		errs:   make(chan error, 1),
	}
}

func (t *WebSocketTransport) String() string { return fmt.Sprintf("ws-transport(%s)", t.url) }

func (t *WebSocketTransport) IsLocal() bool { return t.local }

func (t *WebSocketTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

func (t *WebSocketTransport) Connect(info ConnectionInfo, onElement ElementListener) error {
	conn, _, err := websocket.DefaultDialer.Dial(t.url, nil)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.conn = conn
	t.connected = true
	t.onElement = onElement
	t.mu.Unlock()

	go t.readLoop(conn)
	return nil
}

func (t *WebSocketTransport) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			select {
			case t.errs <- err:
			default:
			}
			return
		}
		t.msgs <- msg
	}
}

func (t *WebSocketTransport) ProcessEvents() {
	for {
		select {
		case msg := <-t.msgs:
			// Each WebSocket message already carries exactly one TLV
			// element (the peer frames before sending), but route it
			// through the element reader anyway so chunked delivery
			// (spec §4.2) stays correct if that assumption ever breaks.
			if err := t.reader.Feed(msg, func(elem []byte) {
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

func (t *WebSocketTransport) Send(wire enc.Wire) error {
	t.mu.Lock()
	conn, connected := t.conn, t.connected
	t.mu.Unlock()
	if !connected {
		return ndn.ErrTransportDisconnected
	}
	return conn.WriteMessage(websocket.BinaryMessage, wire.Join())
}

func (t *WebSocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return nil
	}
	t.connected = false
	return t.conn.Close()
}

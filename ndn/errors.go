// Package ndn defines the core data model and collaborator interfaces of
// the client library: Interest, Data, Signature, KeyLocator, and the
// Signer/KeyChain contract. Packet wire encoding lives in spec2022; the
// Transport boundary lives in face; the event-driven engine lives in node.
package ndn

import (
	"errors"
	"fmt"

	"github.com/ndn-go/corendn/enc"
)

// MaxNdnPacketSize is the hard ceiling on an encoded Interest or Data
// packet (spec §6).
const MaxNdnPacketSize = 8800

var (
	ErrCancelled = errors.New("ndn: operation cancelled")
	ErrNetwork   = errors.New("ndn: network error")
	ErrProtocol  = errors.New("ndn: protocol error")
	ErrSecurity  = errors.New("ndn: security error")
	ErrNoPubKey  = errors.New("ndn: signer has no public key")
)

// ErrInvalidValue reports an invalid value for a named field.
type ErrInvalidValue struct {
	Item  string
	Value any
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("ndn: invalid value for %s: %v", e.Item, e.Value)
}

// ErrPacketTooLarge is returned by Node.ExpressInterest / PutData when the
// encoded packet exceeds MaxNdnPacketSize.
type ErrPacketTooLarge struct {
	Size int
}

func (e ErrPacketTooLarge) Error() string {
	return fmt.Sprintf("ndn: encoded packet size %d exceeds MaxNdnPacketSize (%d)", e.Size, MaxNdnPacketSize)
}

// ErrTransportDisconnected is returned by Transport.Send when the
// underlying socket is not connected.
var ErrTransportDisconnected = errors.New("ndn: transport is not connected")

// ErrRegisterFailed describes a failed registration command: the prefix and
// the reason. node.OnRegisterFailed receives only the prefix, not this
// error.
type ErrRegisterFailed struct {
	Prefix enc.Name
	Reason string
}

func (e ErrRegisterFailed) Error() string {
	return fmt.Sprintf("ndn: failed to register prefix %s: %s", e.Prefix, e.Reason)
}

// ErrSyncDigestUnknown describes a ChronoSync digest component that did not
// match any known state (spec §7). The sync package does not return it: it
// handles an unknown digest internally with a settle window followed by a
// recovery Interest.
type ErrSyncDigestUnknown struct {
	Digest string
}

func (e ErrSyncDigestUnknown) Error() string {
	return fmt.Sprintf("ndn: sync digest %s is unknown", e.Digest)
}

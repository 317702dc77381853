package node

import (
	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/log"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/spec2022"
)

// Flags mirrors NFD's ControlParameters forwarding flags bitmask
// (ChildInherit is the default behavior; Capture overrides a
// longer-prefix registration).
type Flags uint64

const (
	FlagChildInherit Flags = 1 << 0
	FlagCapture      Flags = 1 << 1
)

const (
	localRegisterPrefix    = "/localhost/nfd/rib/register"
	remoteRegisterPrefix   = "/localhop/nfd/rib/register"
	localUnregisterPrefix  = "/localhost/nfd/rib/unregister"
	remoteUnregisterPrefix = "/localhop/nfd/rib/unregister"

	localCommandLifetimeMs  = 2000
	remoteCommandLifetimeMs = 4000
)

// OnRegisterFailed is delivered exactly once when a register_prefix or
// unregister command fails, whether due to a timeout or a non-200
// status (spec §7's propagation policy).
type OnRegisterFailed func(prefix enc.Name)

// rptEntry is one row of the Registered Prefix Table.
type rptEntry struct {
	id               uint64
	prefix           enc.Name
	relatedFilterID  uint64
	hasRelatedFilter bool
}

// RegisterPrefix runs the command-Interest registration protocol of
// spec §4.4.2 against the connected forwarder: build ControlParameters,
// sign a command Interest naming them, and express it. If onInterest is
// non-nil, an Interest Filter Table entry for prefix is armed alongside
// the registration (the "combined form" the original ndn-cpp offers).
// It returns the registered-prefix id immediately; failure is reported
// asynchronously through onRegisterFailed, and success is only logged.
func (n *Node) RegisterPrefix(
	prefix enc.Name,
	onInterest OnInterest,
	onRegisterFailed OnRegisterFailed,
	flags Flags,
	keyChain ndn.KeyChain,
	certName enc.Name,
) uint64 {
	return n.sendRibCommand(prefix, onInterest, onRegisterFailed, flags, keyChain, certName, true)
}

// UnregisterPrefix is the dual of RegisterPrefix: it asks the forwarder
// to remove the route. It does not touch the local Interest Filter
// Table; call RemoveRegisteredPrefix separately if one was set up.
func (n *Node) UnregisterPrefix(
	prefix enc.Name,
	onRegisterFailed OnRegisterFailed,
	keyChain ndn.KeyChain,
	certName enc.Name,
) {
	n.sendRibCommand(prefix, nil, onRegisterFailed, 0, keyChain, certName, false)
}

func (n *Node) sendRibCommand(
	prefix enc.Name,
	onInterest OnInterest,
	onRegisterFailed OnRegisterFailed,
	flags Flags,
	keyChain ndn.KeyChain,
	certName enc.Name,
	isRegister bool,
) uint64 {
	flagsVal := uint64(flags)
	cp := spec2022.ControlParameters{Name: prefix, Flags: &flagsVal}

	local := n.transport.IsLocal()
	var base string
	var lifetimeMs int64
	switch {
	case isRegister && local:
		base, lifetimeMs = localRegisterPrefix, localCommandLifetimeMs
	case isRegister && !local:
		base, lifetimeMs = remoteRegisterPrefix, remoteCommandLifetimeMs
	case !isRegister && local:
		base, lifetimeMs = localUnregisterPrefix, localCommandLifetimeMs
	default:
		base, lifetimeMs = remoteUnregisterPrefix, remoteCommandLifetimeMs
	}

	baseName, err := enc.ParseName(base)
	if err != nil {
		// base is a compile-time constant; this can never happen.
		panic(err)
	}
	cmdName := baseName.Append(cp.AsNameComponent())
	interest := &ndn.Interest{Name: cmdName, LifetimeMs: lifetimeMs}

	if err := keyChain.SignInterest(interest, certName); err != nil {
		log.Warn(n, "RegisterPrefix: failed to sign command Interest", "prefix", prefix, "err", err)
		if onRegisterFailed != nil {
			n.runCallback("onRegisterFailed", func() { onRegisterFailed(prefix) })
		}
		return 0
	}

	id := n.nextEntryID()
	entry := &rptEntry{id: id, prefix: prefix}

	if isRegister && onInterest != nil {
		filterID := n.SetInterestFilter(ndn.InterestFilter{Prefix: prefix}, onInterest)
		entry.relatedFilterID = filterID
		entry.hasRelatedFilter = true
	}
	if isRegister {
		n.rpt = append(n.rpt, entry)
	}

	onData := func(_ *ndn.Interest, data *ndn.Data) {
		resp, err := spec2022.DecodeControlResponse(data.Content)
		if err != nil {
			log.Warn(n, "RegisterPrefix: malformed ControlResponse", "prefix", prefix, "err", err)
			if onRegisterFailed != nil {
				onRegisterFailed(prefix)
			}
			return
		}
		if resp.StatusCode != 200 {
			log.Warn(n, "RegisterPrefix: command rejected", "prefix", prefix, "status", resp.StatusCode, "reason", resp.StatusText)
			if onRegisterFailed != nil {
				onRegisterFailed(prefix)
			}
			return
		}
		log.Debug(n, "RegisterPrefix: command accepted", "prefix", prefix, "register", isRegister)
	}
	onTimeout := func(*ndn.Interest) {
		log.Warn(n, "RegisterPrefix: command Interest timed out", "prefix", prefix)
		if onRegisterFailed != nil {
			onRegisterFailed(prefix)
		}
	}

	if pitID, err := n.ExpressInterest(interest, onData, onTimeout); err != nil {
		log.Warn(n, "RegisterPrefix: failed to send command Interest", "prefix", prefix, "err", err)
		if pitID != 0 {
			// The PIT entry and its timeout stay armed after a send error;
			// drop them so onRegisterFailed is not delivered a second time.
			n.RemovePendingInterest(pitID)
		}
		if onRegisterFailed != nil {
			n.runCallback("onRegisterFailed", func() { onRegisterFailed(prefix) })
		}
	}
	return id
}

// RemoveRegisteredPrefix removes every RPT entry with the given id (the
// id is unique, but the scan is defensive per spec §4.4) and, if it had
// a paired Interest Filter Table entry, unsets that too.
func (n *Node) RemoveRegisteredPrefix(id uint64) {
	count := 0
	kept := n.rpt[:0]
	for _, entry := range n.rpt {
		if entry.id != id {
			kept = append(kept, entry)
			continue
		}
		count++
		if entry.hasRelatedFilter {
			n.UnsetInterestFilter(entry.relatedFilterID)
		}
	}
	n.rpt = kept
	if count == 0 {
		log.Debug(n, "RemoveRegisteredPrefix: id not found", "id", id)
	}
}

package sync

import (
	"time"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/face"
	"github.com/ndn-go/corendn/log"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/node"
	"github.com/ndn-go/corendn/security/signer"
	"github.com/ndn-go/corendn/spec2022"
)

const (
	syncInterestLifetimeMs     = 5000
	recoveryInterestLifetimeMs = 4000
	settleWindow               = 2000 * time.Millisecond

	// newcomerDigest is the original ndn-cpp newcomer convention: a peer
	// that receives a sync Interest carrying this literal digest replies
	// with its full tree, as for a recovery request. This package's own
	// first sync Interest carries the empty tree's root digest, not this
	// value.
	newcomerDigest = "00"

	recoveryComponent = "recovery"
)

// OnSync is invoked once per sync round that actually advances the local
// digest tree, carrying every SyncState that was applied and whether
// they arrived via the recovery path (spec §4.6). Applications use it to
// fetch each producer's actual Data (<producer_prefix>/<session>/<seq>).
type OnSync func(states []SyncState, isRecovery bool)

// ChronoSync is one participant's view of a chatroom namespace: a digest
// tree, its append-only log, and the single long-standing sync Interest
// that drives convergence (spec §4.6).
type ChronoSync struct {
	node     *node.Node
	roomName enc.Name
	signer   ndn.Signer

	selfPrefix enc.Name
	session    uint64
	usrseq     uint64

	tree *DigestTree
	log  *DigestLog

	filterID      uint64
	outstandingID uint64

	pendingUnknown map[string]bool

	onSync OnSync
}

// New builds a ChronoSync participant over an already-connected Node.
// syncPrefix/chatroomName together name the sync group (e.g.
// /ndn/broadcast + "room1" for spec §8 S6's
// "/ndn/broadcast/room"); selfPrefix/session identify this participant's
// own publications. If signer is nil, sync Data is signed with
// DigestSha256 (integrity only, no provenance — matching ChronoSync's
// own use of an unauthenticated sync channel in the original sample).
// New immediately registers the chatroom's Interest Filter and expresses
// the first sync Interest.
func New(n *node.Node, syncPrefix enc.Name, chatroomName string, selfPrefix enc.Name, session uint64, sig ndn.Signer, onSync OnSync) *ChronoSync {
	if sig == nil {
		sig = signer.NewSha256Signer()
	}
	tree := NewDigestTree()
	cs := &ChronoSync{
		node:           n,
		roomName:       syncPrefix.Append(enc.NewStringComponent(chatroomName)),
		signer:         sig,
		selfPrefix:     selfPrefix,
		session:        session,
		tree:           tree,
		log:            NewDigestLog(tree.Root()),
		pendingUnknown: make(map[string]bool),
		onSync:         onSync,
	}
	cs.filterID = n.SetInterestFilter(ndn.InterestFilter{Prefix: cs.roomName}, cs.onSyncInterest)
	cs.expressSyncInterest(false)
	return cs
}

func (cs *ChronoSync) String() string {
	return "chronosync(" + cs.roomName.String() + ")"
}

// Close tears down the chatroom subscription: unsets the Interest Filter
// and cancels the outstanding sync Interest.
func (cs *ChronoSync) Close() {
	cs.node.UnsetInterestFilter(cs.filterID)
	if cs.outstandingID != 0 {
		cs.node.RemovePendingInterest(cs.outstandingID)
		cs.outstandingID = 0
	}
}

// Entries returns the current digest tree's (prefix, session, seq)
// triples in canonical order, for tests and application introspection.
func (cs *ChronoSync) Entries() []SyncState { return cs.tree.Entries() }

// RootDigest returns the current root digest, hex-encoded.
func (cs *ChronoSync) RootDigest() string { return cs.log.Current() }

// PublishNextSequenceNo increments this participant's sequence number,
// applies the resulting one-entry delta to the local tree and log, and
// re-expresses the sync Interest at the new root (spec §4.6's publish).
// It returns the new sequence number.
func (cs *ChronoSync) PublishNextSequenceNo() uint64 {
	cs.usrseq++
	cs.tree.Apply(cs.selfPrefix, cs.session, cs.usrseq)
	delta := []SyncState{{Name: cs.selfPrefix.String(), Session: cs.session, Seqno: cs.usrseq}}
	cs.log.Append(cs.tree.Root(), delta)
	cs.expressSyncInterest(true)
	return cs.usrseq
}

// expressSyncInterest cancels any outstanding sync Interest and
// expresses a fresh one named with the current root digest. cancelOld is
// false only for the very first call from New, where there is nothing
// to cancel yet.
func (cs *ChronoSync) expressSyncInterest(cancelOld bool) {
	if cancelOld && cs.outstandingID != 0 {
		cs.node.RemovePendingInterest(cs.outstandingID)
	}
	digest := cs.log.Current()
	name := cs.roomName.Append(enc.NewStringComponent(digest))
	interest := &ndn.Interest{Name: name, LifetimeMs: syncInterestLifetimeMs}
	id, err := cs.node.ExpressInterest(interest, cs.onSyncDataArrived(false), cs.onSyncTimeout)
	if err != nil {
		log.Warn(cs, "failed to express sync Interest", "err", err)
		return
	}
	cs.outstandingID = id
}

// onSyncTimeout re-expresses the same (possibly now stale) sync Interest
// unchanged (spec §4.6): whatever the current root is by the time the
// timeout fires, not necessarily the one that just expired.
func (cs *ChronoSync) onSyncTimeout(*ndn.Interest) {
	cs.outstandingID = 0
	cs.expressSyncInterest(false)
}

// expressRecoveryInterest asks the sync group for the full tree of
// whoever knows digestHex (spec §4.6's recovery protocol).
func (cs *ChronoSync) expressRecoveryInterest(digestHex string) {
	name := cs.roomName.Append(enc.NewStringComponent(digestHex), enc.NewStringComponent(recoveryComponent))
	interest := &ndn.Interest{Name: name, LifetimeMs: recoveryInterestLifetimeMs}
	if _, err := cs.node.ExpressInterest(interest, cs.onSyncDataArrived(true), func(*ndn.Interest) {
		log.Debug(cs, "recovery Interest timed out", "digest", digestHex)
	}); err != nil {
		log.Warn(cs, "failed to express recovery Interest", "err", err)
	}
}

// onSyncInterest implements spec §4.6's three-way branch on a received
// sync Interest's digest component.
func (cs *ChronoSync) onSyncInterest(_ enc.Name, interest *ndn.Interest, _ face.Transport, _ uint64, _ ndn.InterestFilter) {
	suffix := interest.Name.SubName(len(cs.roomName), -1)
	comp, ok := suffix.Get(0)
	if !ok {
		return
	}
	digestHex := string(comp.Val)

	isRecovery := digestHex == newcomerDigest
	if rc, ok := suffix.Get(1); ok && string(rc.Val) == recoveryComponent {
		isRecovery = true
	}

	if !isRecovery && digestHex == cs.log.Current() {
		return // absorb: the asker is already up to date
	}

	if digestHex == newcomerDigest {
		// "00" is never a logged root, so answer with the full tree here
		// rather than treating it as an unknown digest.
		cs.replySyncData(interest, cs.tree.Entries())
		return
	}

	idx, found := cs.log.IndexOf(digestHex)
	if !found {
		cs.scheduleUnknownDigest(digestHex)
		return
	}
	if isRecovery {
		cs.replySyncData(interest, cs.tree.Entries())
		return
	}
	if idx < cs.log.Len()-1 {
		cs.replySyncData(interest, cs.log.DeltasSince(idx))
		return
	}
	// idx is the current entry and this was not a recovery request:
	// already handled by the absorb branch above.
}

// scheduleUnknownDigest implements spec §4.6's settle window: an unknown
// digest usually means some other peer already has newer state than us
// and will satisfy the asker first; only if digestHex is still unknown
// after the window do we ask for it ourselves.
func (cs *ChronoSync) scheduleUnknownDigest(digestHex string) {
	if cs.pendingUnknown[digestHex] {
		return
	}
	cs.pendingUnknown[digestHex] = true
	cs.node.CallLater(settleWindow, func() {
		delete(cs.pendingUnknown, digestHex)
		if _, found := cs.log.IndexOf(digestHex); found {
			return
		}
		cs.expressRecoveryInterest(digestHex)
	})
}

func (cs *ChronoSync) replySyncData(interest *ndn.Interest, states []SyncState) {
	if len(states) == 0 {
		return
	}
	data := &ndn.Data{Name: interest.Name, Content: EncodeSyncStates(states)}
	if err := cs.signData(data); err != nil {
		log.Warn(cs, "failed to sign sync Data", "err", err)
		return
	}
	if err := cs.node.PutData(data); err != nil {
		log.Warn(cs, "failed to send sync Data", "err", err)
	}
}

func (cs *ChronoSync) signData(data *ndn.Data) error {
	data.Signature = ndn.Signature{
		Type:       cs.signer.Type(),
		KeyLocator: cs.signer.KeyLocator(),
		Value:      make([]byte, cs.signer.EstimateSize()),
	}
	wire, begin, end, err := spec2022.EncodeData(data)
	if err != nil {
		return err
	}
	value, err := cs.signer.Sign(enc.Wire{wire[begin:end]})
	if err != nil {
		return err
	}
	data.Signature.Value = value
	return nil
}

// onSyncDataArrived returns the PIT onData callback for either the
// standing sync Interest (isRecovery=false) or a recovery Interest
// (isRecovery=true): decode SyncStates, apply every one that actually
// advances the tree, append a new log entry if the resulting root is
// new, invoke the application hook, then roll the standing sync
// Interest forward to the new root (spec §4.6).
func (cs *ChronoSync) onSyncDataArrived(isRecovery bool) node.OnData {
	return func(_ *ndn.Interest, data *ndn.Data) {
		states, err := DecodeSyncStates(data.Content)
		if err != nil {
			log.Warn(cs, "dropping malformed sync Data", "err", err)
			return
		}

		var applied []SyncState
		for _, s := range states {
			name, err := enc.ParseName(s.Name)
			if err != nil {
				log.Warn(cs, "dropping SyncState with malformed name", "name", s.Name)
				continue
			}
			if cs.tree.Apply(name, s.Session, s.Seqno) {
				applied = append(applied, s)
			}
		}

		if len(applied) > 0 {
			cs.log.Append(cs.tree.Root(), applied)
			if cs.onSync != nil {
				cs.onSync(applied, isRecovery)
			}
		}

		// Whether this Data satisfied the standing sync Interest
		// directly (it was the match) or a separate recovery Interest
		// answered instead, the standing one is now stale — it still
		// names the pre-update root — and must be rolled forward
		// (spec §4.6). If it already matched, dispatchData has
		// already spliced it out of the PIT; cs.outstandingID just
		// needs clearing so expressSyncInterest doesn't try to cancel
		// an entry that no longer exists.
		if !isRecovery {
			cs.outstandingID = 0
		} else if cs.outstandingID != 0 {
			cs.node.RemovePendingInterest(cs.outstandingID)
			cs.outstandingID = 0
		}
		cs.expressSyncInterest(false)
	}
}

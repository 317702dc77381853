package sync

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/ndn-go/corendn/enc"
)

// treeNode is one row of the digest tree (spec §3): a producer's prefix
// together with the session and sequence number it has most recently
// reached.
type treeNode struct {
	Prefix  enc.Name
	Session uint64
	Seq     uint64
}

// digest computes SHA-256(prefix_name ∥ session ∥ seq), the per-node
// digest spec §3 defines; session and seq are each serialized as 8-byte
// big-endian integers.
func (n treeNode) digest() [sha256.Size]byte {
	h := sha256.New()
	h.Write(n.Prefix.Bytes())
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], n.Session)
	binary.BigEndian.PutUint64(buf[8:16], n.Seq)
	h.Write(buf[:])
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// DigestTree is the sorted-by-producer-prefix digest tree of spec §3:
// its root digest is SHA-256 over the canonical concatenation of every
// node's own digest.
type DigestTree struct {
	nodes []treeNode
}

// NewDigestTree builds an empty digest tree. Its Root is SHA-256 of the
// empty string, matching "no producers known yet".
func NewDigestTree() *DigestTree {
	return &DigestTree{}
}

func (t *DigestTree) indexOf(prefix enc.Name) (int, bool) {
	i := sort.Search(len(t.nodes), func(i int) bool {
		return t.nodes[i].Prefix.Compare(prefix) >= 0
	})
	if i < len(t.nodes) && t.nodes[i].Prefix.Equal(prefix) {
		return i, true
	}
	return i, false
}

// Apply merges one producer's (session, seq) into the tree. It reports
// whether the tree actually changed: a strictly higher seq within the
// same session, or any seq at all under a new session (the producer
// restarted), advances the entry; a stale or duplicate update is a
// no-op.
func (t *DigestTree) Apply(prefix enc.Name, session, seq uint64) bool {
	i, found := t.indexOf(prefix)
	if !found {
		node := treeNode{Prefix: prefix.Clone(), Session: session, Seq: seq}
		t.nodes = append(t.nodes, treeNode{})
		copy(t.nodes[i+1:], t.nodes[i:])
		t.nodes[i] = node
		return true
	}
	existing := &t.nodes[i]
	if session == existing.Session && seq <= existing.Seq {
		return false
	}
	existing.Session = session
	existing.Seq = seq
	return true
}

// Root computes the current root digest (spec §3), hex-encoded so it can
// be carried as a single Name component.
func (t *DigestTree) Root() string {
	h := sha256.New()
	for _, n := range t.nodes {
		d := n.digest()
		h.Write(d[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Entries returns every (prefix, session, seq) currently in the tree, in
// canonical prefix order, as SyncState deltas — used to answer a
// recovery or newcomer Interest with the full tree (spec §4.6).
func (t *DigestTree) Entries() []SyncState {
	out := make([]SyncState, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = SyncState{Name: n.Prefix.String(), Session: n.Session, Seqno: n.Seq}
	}
	return out
}

// Seq returns the sequence number the tree currently has for prefix, and
// whether any entry exists for it at all.
func (t *DigestTree) Seq(prefix enc.Name) (session, seq uint64, ok bool) {
	i, found := t.indexOf(prefix)
	if !found {
		return 0, 0, false
	}
	return t.nodes[i].Session, t.nodes[i].Seq, true
}

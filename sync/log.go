package sync

// logEntry is one row of the digest log (spec §3): every root digest
// this participant has ever observed locally, paired with the delta of
// SyncStates that produced it.
type logEntry struct {
	Digest string
	Delta  []SyncState
}

// DigestLog is the append-only history of root digests (spec §3, §4.6).
// Invariant: it always contains the digest tree's current root at index
// len-1.
type DigestLog struct {
	entries []logEntry
}

// NewDigestLog builds a log seeded with the empty tree's root (no delta:
// nothing has been published yet).
func NewDigestLog(initialDigest string) *DigestLog {
	return &DigestLog{entries: []logEntry{{Digest: initialDigest}}}
}

// Append records a new root digest and the delta that produced it, but
// only if digest is not already the most recent entry (a no-op republish
// of the same state must not grow the log unboundedly).
func (l *DigestLog) Append(digest string, delta []SyncState) {
	if len(l.entries) > 0 && l.entries[len(l.entries)-1].Digest == digest {
		return
	}
	l.entries = append(l.entries, logEntry{Digest: digest, Delta: delta})
}

// IndexOf returns the position of digest in the log and whether it was
// found at all.
func (l *DigestLog) IndexOf(digest string) (int, bool) {
	for i, e := range l.entries {
		if e.Digest == digest {
			return i, true
		}
	}
	return 0, false
}

// DeltasSince concatenates every delta strictly after index idx — the
// reply spec §4.6 sends when a peer's digest matches digest_log[idx] for
// idx < len-1.
func (l *DigestLog) DeltasSince(idx int) []SyncState {
	var out []SyncState
	for _, e := range l.entries[idx+1:] {
		out = append(out, e.Delta...)
	}
	return out
}

// Current returns the most recent (current) digest.
func (l *DigestLog) Current() string {
	return l.entries[len(l.entries)-1].Digest
}

// Len reports how many entries the log holds.
func (l *DigestLog) Len() int {
	return len(l.entries)
}

package node

import (
	"github.com/cespare/xxhash"

	"github.com/ndn-go/corendn/enc"
)

// nameTrie indexes values by the Name under which they were inserted so
// that, given an arriving packet's name, every stored entry whose own
// name is a prefix of it can be collected in O(depth) instead of
// scanning the whole table (spec §4.4.1's PIT/IFT matching rule). This
// mirrors the teacher's own NameTrie (referenced by std/engine/basic's
// Engine.pit and std/schema's CacheEntry tree); the generated source for
// that type was not present in the retrieved pack, so its shape here is
// reconstructed from its call sites and generalized to hash components
// with cespare/xxhash for child dispatch.
type nameTrie[T any] struct {
	children map[uint64]*nameTrie[T]
	entries  []T
}

func newNameTrie[T any]() *nameTrie[T] {
	return &nameTrie[T]{}
}

func componentKey(c enc.Component) uint64 {
	h := xxhash.New()
	h.Write([]byte{byte(c.Typ)})
	h.Write(c.Val)
	return h.Sum64()
}

// insert adds v at the node identified by name, creating path nodes as
// needed.
func (t *nameTrie[T]) insert(name enc.Name, v T) {
	n := t
	for _, c := range name {
		if n.children == nil {
			n.children = make(map[uint64]*nameTrie[T])
		}
		k := componentKey(c)
		child, ok := n.children[k]
		if !ok {
			child = newNameTrie[T]()
			n.children[k] = child
		}
		n = child
	}
	n.entries = append(n.entries, v)
}

// collectPrefixesOf walks name component by component and returns every
// entry stored at a node along the path: every entry whose own name is a
// prefix of name, including the empty prefix stored at the root.
func (t *nameTrie[T]) collectPrefixesOf(name enc.Name) []T {
	n := t
	out := append([]T{}, n.entries...)
	for _, c := range name {
		if n.children == nil {
			break
		}
		child, ok := n.children[componentKey(c)]
		if !ok {
			break
		}
		n = child
		out = append(out, n.entries...)
	}
	return out
}

// removeIf deletes, at the node identified by name, every entry for
// which pred returns true. It is a no-op if name was never inserted.
func (t *nameTrie[T]) removeIf(name enc.Name, pred func(T) bool) {
	n := t
	for _, c := range name {
		if n.children == nil {
			return
		}
		child, ok := n.children[componentKey(c)]
		if !ok {
			return
		}
		n = child
	}
	kept := n.entries[:0]
	for _, e := range n.entries {
		if !pred(e) {
			kept = append(kept, e)
		}
	}
	n.entries = kept
}

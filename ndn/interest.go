package ndn

import (
	"time"

	"github.com/ndn-go/corendn/enc"
)

// ChildSelector picks which child of a longest-prefix match a forwarder
// should prefer when several Data packets could satisfy an Interest.
type ChildSelector int

const (
	ChildSelectorLeft ChildSelector = iota
	ChildSelectorRight
)

// ExcludeEntry is one entry of an Interest's Exclude selector: either a
// single component, or (if Any is true) the "any" wildcard that can be
// followed by an upper bound component.
type ExcludeEntry struct {
	Any       bool
	Component enc.Component
}

// Selectors narrows which Data can satisfy an Interest. Client-side
// enforcement of these is deliberately left to forwarders (spec §4.4.1,
// §9 Open Questions); the core only carries and encodes them.
type Selectors struct {
	MinSuffixComponents  *int
	MaxSuffixComponents  *int
	PublisherKeyLocator  *KeyLocator
	Exclude              []ExcludeEntry
	ChildSelector        *ChildSelector
	MustBeFresh          bool
}

// IsEmpty reports whether no selector field is set, letting the encoder
// skip the whole Selectors sub-element.
func (s Selectors) IsEmpty() bool {
	return s.MinSuffixComponents == nil &&
		s.MaxSuffixComponents == nil &&
		s.PublisherKeyLocator == nil &&
		len(s.Exclude) == 0 &&
		s.ChildSelector == nil &&
		!s.MustBeFresh
}

// Scope is the legacy hop-limiting field (spec §3): 0=local node only,
// 1=local host (face-local), 2=local host and its immediate neighbors.
type Scope int

// Interest is the NDN request packet (spec §3).
type Interest struct {
	Name      enc.Name
	Selectors Selectors
	Nonce     [4]byte

	// Lifetime is the InterestLifetime in milliseconds. A negative value
	// means "absent" (the forwarder's default applies, and the Node does
	// not schedule a local timeout for it).
	LifetimeMs int64

	// Scope is the legacy field; nil means absent.
	Scope *Scope

	// CanBePrefix mirrors the 2022 spec's top-level Interest flag. It is
	// carried on the Interest value only: spec2022.EncodeInterest does not
	// write it and DecodeInterest does not read it. (MustBeFresh is a
	// Selectors field.)
	CanBePrefix bool
}

// Lifetime returns the InterestLifetime as a time.Duration and whether it
// was present at all.
func (i Interest) Lifetime() (d time.Duration, present bool) {
	if i.LifetimeMs < 0 {
		return 0, false
	}
	return time.Duration(i.LifetimeMs) * time.Millisecond, true
}

// MatchesName reports whether this Interest's Name (and, if present, the
// ImplicitSha256Digest special case) matches a candidate Data name.
func (i Interest) MatchesName(dataName enc.Name) bool {
	return i.Name.MatchesName(dataName)
}

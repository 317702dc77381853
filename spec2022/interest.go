package spec2022

import (
	"fmt"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
)

func selectorsSize(s ndn.Selectors) int {
	if s.IsEmpty() {
		return 0
	}
	inner := 0
	if s.MinSuffixComponents != nil {
		inner += natSize(TypeMinSuffixComponents, enc.Nat(*s.MinSuffixComponents))
	}
	if s.MaxSuffixComponents != nil {
		inner += natSize(TypeMaxSuffixComponents, enc.Nat(*s.MaxSuffixComponents))
	}
	if s.PublisherKeyLocator != nil {
		inner += keyLocatorSizeAs(TypePublisherKeyLocator, *s.PublisherKeyLocator)
	}
	if len(s.Exclude) > 0 {
		inner += excludeSize(s.Exclude)
	}
	if s.ChildSelector != nil {
		inner += natSize(TypeChildSelector, enc.Nat(*s.ChildSelector))
	}
	if s.MustBeFresh {
		inner += emptySize(TypeMustBeFresh)
	}
	return TypeSelectors.EncodingLength() + enc.Nat(inner).EncodingLength() + inner
}

// keyLocatorSizeAs/writeKeyLocatorAs let PublisherPublicKeyLocator reuse the
// KeyLocator value encoding under a different outer TLV type.
func keyLocatorSizeAs(typ enc.TLNum, kl ndn.KeyLocator) int {
	if kl.IsNone() {
		return 0
	}
	var inner int
	if kl.Kind == ndn.KeyLocatorName {
		inner = kl.Name.EncodingLength()
	} else {
		inner = byteSize(TypeKeyDigest, kl.Digest)
	}
	return typ.EncodingLength() + enc.Nat(inner).EncodingLength() + inner
}

func writeKeyLocatorAs(buf []byte, typ enc.TLNum, kl ndn.KeyLocator) int {
	var inner int
	if kl.Kind == ndn.KeyLocatorName {
		inner = kl.Name.EncodingLength()
	} else {
		inner = byteSize(TypeKeyDigest, kl.Digest)
	}
	p := typ.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	if kl.Kind == ndn.KeyLocatorName {
		p += kl.Name.EncodeInto(buf[p:])
	} else {
		p += writeBytes(buf[p:], TypeKeyDigest, kl.Digest)
	}
	return p
}

func excludeSize(entries []ndn.ExcludeEntry) int {
	inner := 0
	for _, e := range entries {
		if e.Any {
			inner += emptySize(TypeAny)
		} else {
			inner += e.Component.EncodingLength()
		}
	}
	return TypeExclude.EncodingLength() + enc.Nat(inner).EncodingLength() + inner
}

func writeExclude(buf []byte, entries []ndn.ExcludeEntry) int {
	inner := 0
	for _, e := range entries {
		if e.Any {
			inner += emptySize(TypeAny)
		} else {
			inner += e.Component.EncodingLength()
		}
	}
	p := TypeExclude.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	for _, e := range entries {
		if e.Any {
			p += writeEmpty(buf[p:], TypeAny)
		} else {
			p += e.Component.EncodeInto(buf[p:])
		}
	}
	return p
}

func writeSelectors(buf []byte, s ndn.Selectors) int {
	if s.IsEmpty() {
		return 0
	}
	inner := 0
	if s.MinSuffixComponents != nil {
		inner += natSize(TypeMinSuffixComponents, enc.Nat(*s.MinSuffixComponents))
	}
	if s.MaxSuffixComponents != nil {
		inner += natSize(TypeMaxSuffixComponents, enc.Nat(*s.MaxSuffixComponents))
	}
	if s.PublisherKeyLocator != nil {
		inner += keyLocatorSizeAs(TypePublisherKeyLocator, *s.PublisherKeyLocator)
	}
	if len(s.Exclude) > 0 {
		inner += excludeSize(s.Exclude)
	}
	if s.ChildSelector != nil {
		inner += natSize(TypeChildSelector, enc.Nat(*s.ChildSelector))
	}
	if s.MustBeFresh {
		inner += emptySize(TypeMustBeFresh)
	}

	p := TypeSelectors.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	if s.MinSuffixComponents != nil {
		p += writeNat(buf[p:], TypeMinSuffixComponents, enc.Nat(*s.MinSuffixComponents))
	}
	if s.MaxSuffixComponents != nil {
		p += writeNat(buf[p:], TypeMaxSuffixComponents, enc.Nat(*s.MaxSuffixComponents))
	}
	if s.PublisherKeyLocator != nil {
		p += writeKeyLocatorAs(buf[p:], TypePublisherKeyLocator, *s.PublisherKeyLocator)
	}
	if len(s.Exclude) > 0 {
		p += writeExclude(buf[p:], s.Exclude)
	}
	if s.ChildSelector != nil {
		p += writeNat(buf[p:], TypeChildSelector, enc.Nat(*s.ChildSelector))
	}
	if s.MustBeFresh {
		p += writeEmpty(buf[p:], TypeMustBeFresh)
	}
	return p
}

// EncodingLengthInterest returns the number of bytes EncodeInterest will write for
// i, including the outer Interest TYPE|LENGTH header.
func EncodingLengthInterest(i *ndn.Interest) int {
	inner := i.Name.EncodingLength()
	inner += selectorsSize(i.Selectors)
	inner += byteSize(TypeNonce, i.Nonce[:])
	if i.Scope != nil {
		inner += natSize(TypeScope, enc.Nat(*i.Scope))
	}
	if _, present := i.Lifetime(); present {
		inner += natSize(TypeInterestLifetime, enc.Nat(i.LifetimeMs))
	}
	return TypeInterest.EncodingLength() + enc.Nat(inner).EncodingLength() + inner
}

// EncodeInterest encodes i as a canonical NDN TLV Interest element.
func EncodeInterest(i *ndn.Interest) ([]byte, error) {
	buf := make([]byte, EncodingLengthInterest(i))
	inner := i.Name.EncodingLength()
	inner += selectorsSize(i.Selectors)
	inner += byteSize(TypeNonce, i.Nonce[:])
	if i.Scope != nil {
		inner += natSize(TypeScope, enc.Nat(*i.Scope))
	}
	if _, present := i.Lifetime(); present {
		inner += natSize(TypeInterestLifetime, enc.Nat(i.LifetimeMs))
	}

	p := TypeInterest.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	p += i.Name.EncodeInto(buf[p:])
	p += writeSelectors(buf[p:], i.Selectors)
	p += writeBytes(buf[p:], TypeNonce, i.Nonce[:])
	if i.Scope != nil {
		p += writeNat(buf[p:], TypeScope, enc.Nat(*i.Scope))
	}
	if _, present := i.Lifetime(); present {
		p += writeNat(buf[p:], TypeInterestLifetime, enc.Nat(i.LifetimeMs))
	}
	if p != len(buf) {
		return nil, fmt.Errorf("spec2022: interest encoder wrote unexpected length %d, want %d", p, len(buf))
	}
	return buf, nil
}

// DecodeInterest parses a full Interest element (including its outer
// TYPE|LENGTH) from buf. Trailing bytes after the element are an error;
// callers that frame elements themselves (elemreader) should slice buf to
// exactly one element first.
func DecodeInterest(buf []byte) (*ndn.Interest, error) {
	typ, p1, err := enc.PeekTLNum(buf, 0)
	if err != nil {
		return nil, err
	}
	if typ != TypeInterest {
		return nil, enc.ErrMalformed{Offset: 0, Reason: "not an Interest element"}
	}
	length, p2, err := enc.PeekTLNum(buf, p1)
	if err != nil {
		return nil, err
	}
	start := p1 + p2
	end := start + int(length)
	if end > len(buf) {
		return nil, enc.ErrMalformed{Offset: 0, Reason: "Interest length exceeds input"}
	}
	if end != len(buf) {
		return nil, enc.ErrMalformed{Offset: end, Reason: "trailing bytes after Interest element"}
	}

	out := &ndn.Interest{LifetimeMs: -1}
	gotNonce := false
	pos := start
	// Name must come first.
	name, next, err := enc.ReadName(buf, pos)
	if err != nil {
		return nil, err
	}
	out.Name = name
	pos = next

	err = iterElements(buf, pos, end, func(e element) error {
		switch e.Typ {
		case TypeSelectors:
			sel, err := readSelectors(buf, e.Start, e.End)
			if err != nil {
				return err
			}
			out.Selectors = sel
		case TypeNonce:
			if e.End-e.Start != 4 {
				return enc.ErrMalformed{Offset: e.Start, Reason: "Nonce must be 4 bytes"}
			}
			copy(out.Nonce[:], buf[e.Start:e.End])
			gotNonce = true
		case TypeScope:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			s := ndn.Scope(v)
			out.Scope = &s
		case TypeInterestLifetime:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			out.LifetimeMs = int64(v)
		default:
			if enc.IsCritical(e.Typ) {
				return enc.ErrMalformed{Offset: e.Start, Reason: "unrecognized critical type in Interest"}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !gotNonce {
		return nil, enc.ErrMalformed{Offset: start, Reason: "Interest missing required Nonce"}
	}
	return out, nil
}

func readSelectors(buf []byte, start, end int) (ndn.Selectors, error) {
	var s ndn.Selectors
	err := iterElements(buf, start, end, func(e element) error {
		switch e.Typ {
		case TypeMinSuffixComponents:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			n := int(v)
			s.MinSuffixComponents = &n
		case TypeMaxSuffixComponents:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			n := int(v)
			s.MaxSuffixComponents = &n
		case TypePublisherKeyLocator:
			kl, err := readKeyLocatorValue(buf, e.Start, e.End)
			if err != nil {
				return err
			}
			s.PublisherKeyLocator = &kl
		case TypeExclude:
			entries, err := readExclude(buf, e.Start, e.End)
			if err != nil {
				return err
			}
			s.Exclude = entries
		case TypeChildSelector:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			cs := ndn.ChildSelector(v)
			s.ChildSelector = &cs
		case TypeMustBeFresh:
			s.MustBeFresh = true
		default:
			if enc.IsCritical(e.Typ) {
				return enc.ErrMalformed{Offset: e.Start, Reason: "unrecognized critical type in Selectors"}
			}
		}
		return nil
	})
	return s, err
}

func readExclude(buf []byte, start, end int) ([]ndn.ExcludeEntry, error) {
	var out []ndn.ExcludeEntry
	err := iterElements(buf, start, end, func(e element) error {
		if e.Typ == TypeAny {
			out = append(out, ndn.ExcludeEntry{Any: true})
			return nil
		}
		val := make([]byte, e.End-e.Start)
		copy(val, buf[e.Start:e.End])
		out = append(out, ndn.ExcludeEntry{Component: enc.Component{Typ: e.Typ, Val: val}})
		return nil
	})
	return out, err
}

package spec2022

import "github.com/ndn-go/corendn/enc"

// element is one decoded TLV sub-element: its type, and the byte range of
// its VALUE within the buffer being parsed.
type element struct {
	Typ   enc.TLNum
	Start int
	End   int
}

// iterElements walks the sequence of TLV elements in buf[start:end],
// calling yield for each. It stops (returning the error) on the first
// malformed element.
func iterElements(buf []byte, start, end int, yield func(element) error) error {
	pos := start
	for pos < end {
		typ, p1, err := enc.PeekTLNum(buf, pos)
		if err != nil {
			return err
		}
		length, p2, err := enc.PeekTLNum(buf, pos+p1)
		if err != nil {
			return err
		}
		vstart := pos + p1 + p2
		vend := vstart + int(length)
		if vend > end {
			return enc.ErrMalformed{Offset: pos, Reason: "element length exceeds enclosing scope"}
		}
		if err := yield(element{Typ: typ, Start: vstart, End: vend}); err != nil {
			return err
		}
		pos = vend
	}
	if pos != end {
		return enc.ErrMalformed{Offset: pos, Reason: "trailing bytes in nested scope"}
	}
	return nil
}

// natSize returns the encoded size of a TLV whose VALUE is a Nat number.
func natSize(typ enc.TLNum, v enc.Nat) int {
	l := v.EncodingLength()
	return typ.EncodingLength() + enc.Nat(l).EncodingLength() + l
}

// writeNat writes TYPE|LENGTH|VALUE for a Nat-valued sub-element.
func writeNat(buf []byte, typ enc.TLNum, v enc.Nat) int {
	l := v.EncodingLength()
	p := typ.EncodeInto(buf)
	p += enc.Nat(l).EncodeInto(buf[p:])
	p += v.EncodeInto(buf[p:])
	return p
}

// byteSize returns the encoded size of a TLV whose VALUE is an opaque blob.
func byteSize(typ enc.TLNum, v []byte) int {
	return typ.EncodingLength() + enc.Nat(len(v)).EncodingLength() + len(v)
}

// writeBytes writes TYPE|LENGTH|VALUE for an opaque-blob sub-element.
func writeBytes(buf []byte, typ enc.TLNum, v []byte) int {
	p := typ.EncodeInto(buf)
	p += enc.Nat(len(v)).EncodeInto(buf[p:])
	copy(buf[p:], v)
	return p + len(v)
}

// emptySize returns the encoded size of a zero-length marker TLV (e.g.
// MustBeFresh).
func emptySize(typ enc.TLNum) int {
	return typ.EncodingLength() + 1
}

func writeEmpty(buf []byte, typ enc.TLNum) int {
	p := typ.EncodeInto(buf)
	p += enc.Nat(0).EncodeInto(buf[p:])
	return p
}

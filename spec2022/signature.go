package spec2022

import (
	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
)

func keyLocatorSize(kl ndn.KeyLocator) int {
	if kl.IsNone() {
		return 0
	}
	var inner int
	if kl.Kind == ndn.KeyLocatorName {
		inner = kl.Name.EncodingLength()
	} else {
		inner = byteSize(TypeKeyDigest, kl.Digest)
	}
	return TypeKeyLocator.EncodingLength() + enc.Nat(inner).EncodingLength() + inner
}

func writeKeyLocator(buf []byte, kl ndn.KeyLocator) int {
	if kl.IsNone() {
		return 0
	}
	var inner int
	if kl.Kind == ndn.KeyLocatorName {
		inner = kl.Name.EncodingLength()
	} else {
		inner = byteSize(TypeKeyDigest, kl.Digest)
	}
	p := TypeKeyLocator.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	if kl.Kind == ndn.KeyLocatorName {
		p += kl.Name.EncodeInto(buf[p:])
	} else {
		p += writeBytes(buf[p:], TypeKeyDigest, kl.Digest)
	}
	return p
}

// signatureInfoSize returns the encoded size of a SignatureInfo TLV for sig.
func signatureInfoSize(sig ndn.Signature) int {
	inner := natSize(TypeSignatureType, enc.Nat(sig.Type)) + keyLocatorSize(sig.KeyLocator)
	return TypeSignatureInfo.EncodingLength() + enc.Nat(inner).EncodingLength() + inner
}

func writeSignatureInfo(buf []byte, sig ndn.Signature) int {
	inner := natSize(TypeSignatureType, enc.Nat(sig.Type)) + keyLocatorSize(sig.KeyLocator)
	p := TypeSignatureInfo.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	p += writeNat(buf[p:], TypeSignatureType, enc.Nat(sig.Type))
	p += writeKeyLocator(buf[p:], sig.KeyLocator)
	return p
}

func signatureValueSize(sig ndn.Signature) int {
	return byteSize(TypeSignatureValue, sig.Value)
}

func writeSignatureValue(buf []byte, sig ndn.Signature) int {
	return writeBytes(buf, TypeSignatureValue, sig.Value)
}

// EncodeSignatureInfo returns a standalone SignatureInfo TLV for sig. It is
// exported for callers (e.g. security/keychain) that sign command
// Interests by appending SignatureInfo/SignatureValue as name components
// rather than as Data SignatureInfo/Value fields (spec §4.4.2).
func EncodeSignatureInfo(sig ndn.Signature) []byte {
	buf := make([]byte, signatureInfoSize(sig))
	writeSignatureInfo(buf, sig)
	return buf
}

// EncodeSignatureValue returns a standalone SignatureValue TLV for sig.
func EncodeSignatureValue(sig ndn.Signature) []byte {
	buf := make([]byte, signatureValueSize(sig))
	writeSignatureValue(buf, sig)
	return buf
}

// DecodeSignatureInfo parses a standalone SignatureInfo TLV, the inverse
// of EncodeSignatureInfo.
func DecodeSignatureInfo(wire []byte) (ndn.Signature, error) {
	typ, typLen, err := enc.PeekTLNum(wire, 0)
	if err != nil {
		return ndn.Signature{}, err
	}
	if typ != TypeSignatureInfo {
		return ndn.Signature{}, enc.ErrMalformed{Offset: 0, Reason: "not a SignatureInfo TLV"}
	}
	length, lenLen, err := enc.PeekTLNum(wire, typLen)
	if err != nil {
		return ndn.Signature{}, err
	}
	start := typLen + lenLen
	end := start + int(length)
	if end > len(wire) {
		return ndn.Signature{}, enc.ErrMalformed{Offset: start, Reason: "SignatureInfo length out of range"}
	}
	return readSignatureInfo(wire, start, end)
}

// readSignatureInfo parses a SignatureInfo element's VALUE range into a
// partial ndn.Signature (Value is filled in separately from
// SignatureValue).
func readSignatureInfo(buf []byte, start, end int) (ndn.Signature, error) {
	var sig ndn.Signature
	err := iterElements(buf, start, end, func(e element) error {
		switch e.Typ {
		case TypeSignatureType:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			sig.Type = ndn.SigType(v)
		case TypeKeyLocator:
			kl, err := readKeyLocatorValue(buf, e.Start, e.End)
			if err != nil {
				return err
			}
			sig.KeyLocator = kl
		default:
			if enc.IsCritical(e.Typ) {
				return enc.ErrMalformed{Offset: e.Start, Reason: "unrecognized critical type in SignatureInfo"}
			}
		}
		return nil
	})
	return sig, err
}

// readKeyLocatorValue parses the VALUE of a KeyLocator element (a nested
// Name or a KeyDigest blob).
func readKeyLocatorValue(buf []byte, start, end int) (ndn.KeyLocator, error) {
	if start >= end {
		return ndn.KeyLocator{}, nil
	}
	typ, _, err := enc.PeekTLNum(buf, start)
	if err != nil {
		return ndn.KeyLocator{}, err
	}
	if typ == enc.TypeName {
		name, next, err := enc.ReadName(buf, start)
		if err != nil {
			return ndn.KeyLocator{}, err
		}
		if next != end {
			return ndn.KeyLocator{}, enc.ErrMalformed{Offset: start, Reason: "trailing bytes in KeyLocator"}
		}
		return ndn.NewKeyLocatorName(name), nil
	}
	var out ndn.KeyLocator
	err = iterElements(buf, start, end, func(e element) error {
		if e.Typ == TypeKeyDigest {
			out = ndn.NewKeyLocatorDigest(append([]byte{}, buf[e.Start:e.End]...))
		}
		return nil
	})
	return out, err
}

package spec2022

import (
	"fmt"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
)

func metaInfoSize(m ndn.MetaInfo) int {
	inner := 0
	if m.ContentType != ndn.ContentTypeBlob {
		inner += natSize(TypeContentType, enc.Nat(m.ContentType))
	}
	if m.FreshnessPeriod > 0 {
		inner += natSize(TypeFreshnessPeriod, enc.Nat(m.FreshnessPeriod))
	}
	if m.FinalBlockId != nil {
		fb := m.FinalBlockId.EncodingLength()
		inner += TypeFinalBlockId.EncodingLength() + enc.Nat(fb).EncodingLength() + fb
	}
	if inner == 0 {
		return emptySize(TypeMetaInfo)
	}
	return TypeMetaInfo.EncodingLength() + enc.Nat(inner).EncodingLength() + inner
}

func writeMetaInfo(buf []byte, m ndn.MetaInfo) int {
	inner := 0
	if m.ContentType != ndn.ContentTypeBlob {
		inner += natSize(TypeContentType, enc.Nat(m.ContentType))
	}
	if m.FreshnessPeriod > 0 {
		inner += natSize(TypeFreshnessPeriod, enc.Nat(m.FreshnessPeriod))
	}
	if m.FinalBlockId != nil {
		fb := m.FinalBlockId.EncodingLength()
		inner += TypeFinalBlockId.EncodingLength() + enc.Nat(fb).EncodingLength() + fb
	}

	p := TypeMetaInfo.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	if m.ContentType != ndn.ContentTypeBlob {
		p += writeNat(buf[p:], TypeContentType, enc.Nat(m.ContentType))
	}
	if m.FreshnessPeriod > 0 {
		p += writeNat(buf[p:], TypeFreshnessPeriod, enc.Nat(m.FreshnessPeriod))
	}
	if m.FinalBlockId != nil {
		fbBytes := m.FinalBlockId.Bytes()
		p += writeBytes2(buf[p:], TypeFinalBlockId, fbBytes)
	}
	return p
}

// writeBytes2 writes a sub-element whose VALUE is an already-encoded inner
// TLV (fbBytes is itself a full component TLV, nested one level deeper).
func writeBytes2(buf []byte, typ enc.TLNum, inner []byte) int {
	p := typ.EncodeInto(buf)
	p += enc.Nat(len(inner)).EncodeInto(buf[p:])
	copy(buf[p:], inner)
	return p + len(inner)
}

func readMetaInfo(buf []byte, start, end int) (ndn.MetaInfo, error) {
	m := ndn.MetaInfo{ContentType: ndn.ContentTypeBlob}
	err := iterElements(buf, start, end, func(e element) error {
		switch e.Typ {
		case TypeContentType:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			m.ContentType = ndn.ContentType(v)
		case TypeFreshnessPeriod:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			m.FreshnessPeriod = int64(v)
		case TypeFinalBlockId:
			c, _, err := readComponentAt(buf, e.Start)
			if err != nil {
				return err
			}
			m.FinalBlockId = &c
		default:
			if enc.IsCritical(e.Typ) {
				return enc.ErrMalformed{Offset: e.Start, Reason: "unrecognized critical type in MetaInfo"}
			}
		}
		return nil
	})
	return m, err
}

// readComponentAt decodes one Component TLV nested at off (used for
// FinalBlockId, which wraps a full NameComponent).
func readComponentAt(buf []byte, off int) (enc.Component, int, error) {
	typ, p1, err := enc.PeekTLNum(buf, off)
	if err != nil {
		return enc.Component{}, 0, err
	}
	length, p2, err := enc.PeekTLNum(buf, off+p1)
	if err != nil {
		return enc.Component{}, 0, err
	}
	start := off + p1 + p2
	end := start + int(length)
	if end > len(buf) {
		return enc.Component{}, 0, enc.ErrMalformed{Offset: off, Reason: "component length exceeds remaining input"}
	}
	val := make([]byte, length)
	copy(val, buf[start:end])
	return enc.Component{Typ: typ, Val: val}, end, nil
}

// EncodeData encodes d as a canonical NDN TLV Data element. It also
// returns the [signedBegin, signedEnd) byte range within the returned
// buffer spanning Name through SignatureInfo inclusive (spec §3, §4.1),
// so a Signer can hash it without re-walking the packet.
func EncodeData(d *ndn.Data) (wire []byte, signedBegin int, signedEnd int, err error) {
	nameLen := d.Name.EncodingLength()
	metaLen := metaInfoSize(d.MetaInfo)
	contentLen := byteSize(TypeContent, d.Content)
	sigInfoLen := signatureInfoSize(d.Signature)
	sigValueLen := signatureValueSize(d.Signature)

	inner := nameLen + metaLen + contentLen + sigInfoLen + sigValueLen
	buf := make([]byte, TypeData.EncodingLength()+enc.Nat(inner).EncodingLength()+inner)

	p := TypeData.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	signedBegin = p
	p += d.Name.EncodeInto(buf[p:])
	p += writeMetaInfo(buf[p:], d.MetaInfo)
	p += writeBytes(buf[p:], TypeContent, d.Content)
	p += writeSignatureInfo(buf[p:], d.Signature)
	signedEnd = p
	p += writeSignatureValue(buf[p:], d.Signature)

	if p != len(buf) {
		return nil, 0, 0, fmt.Errorf("spec2022: data encoder wrote unexpected length %d, want %d", p, len(buf))
	}
	return buf, signedBegin, signedEnd, nil
}

// DecodeData parses a full Data element (including its outer
// TYPE|LENGTH) from buf and reports the same signed-portion offsets
// EncodeData would have produced, so verification can re-hash the
// identical range.
func DecodeData(buf []byte) (d *ndn.Data, signedBegin int, signedEnd int, err error) {
	typ, p1, err := enc.PeekTLNum(buf, 0)
	if err != nil {
		return nil, 0, 0, err
	}
	if typ != TypeData {
		return nil, 0, 0, enc.ErrMalformed{Offset: 0, Reason: "not a Data element"}
	}
	length, p2, err := enc.PeekTLNum(buf, p1)
	if err != nil {
		return nil, 0, 0, err
	}
	start := p1 + p2
	end := start + int(length)
	if end > len(buf) {
		return nil, 0, 0, enc.ErrMalformed{Offset: 0, Reason: "Data length exceeds input"}
	}
	if end != len(buf) {
		return nil, 0, 0, enc.ErrMalformed{Offset: end, Reason: "trailing bytes after Data element"}
	}

	signedBegin = start
	out := &ndn.Data{}

	name, pos, err := enc.ReadName(buf, start)
	if err != nil {
		return nil, 0, 0, err
	}
	out.Name = name

	gotSigInfo := false
	gotSigValue := false
	var sigValueEnd int
	err = iterElements(buf, pos, end, func(e element) error {
		switch e.Typ {
		case TypeMetaInfo:
			m, err := readMetaInfo(buf, e.Start, e.End)
			if err != nil {
				return err
			}
			out.MetaInfo = m
		case TypeContent:
			out.Content = append([]byte{}, buf[e.Start:e.End]...)
		case TypeSignatureInfo:
			sig, err := readSignatureInfo(buf, e.Start, e.End)
			if err != nil {
				return err
			}
			out.Signature = sig
			gotSigInfo = true
			signedEnd = e.End
		case TypeSignatureValue:
			out.Signature.Value = append([]byte{}, buf[e.Start:e.End]...)
			gotSigValue = true
			sigValueEnd = e.End
		default:
			if enc.IsCritical(e.Typ) {
				return enc.ErrMalformed{Offset: e.Start, Reason: "unrecognized critical type in Data"}
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	if !gotSigInfo || !gotSigValue {
		return nil, 0, 0, enc.ErrMalformed{Offset: pos, Reason: "Data missing SignatureInfo or SignatureValue"}
	}
	if sigValueEnd != end {
		return nil, 0, 0, enc.ErrMalformed{Offset: sigValueEnd, Reason: "trailing bytes after SignatureValue"}
	}
	return out, signedBegin, signedEnd, nil
}

package spec2022

import "github.com/ndn-go/corendn/enc"

// ControlParameters carries the prefix-registration request body (spec §6,
// §4.4.2): the Name to register/unregister plus the NFD RIB management
// knobs the original ndn-cpp's ControlParameters exposed.
type ControlParameters struct {
	Name   enc.Name
	FaceId *uint64
	Origin *uint64
	Cost   *uint64
	Flags  *uint64
}

// EncodingLength returns the size of the ControlParameters TLV.
func (c ControlParameters) EncodingLength() int {
	inner := c.Name.EncodingLength()
	if c.FaceId != nil {
		inner += natSize(TypeFaceId, enc.Nat(*c.FaceId))
	}
	if c.Origin != nil {
		inner += natSize(TypeOrigin, enc.Nat(*c.Origin))
	}
	if c.Cost != nil {
		inner += natSize(TypeCost, enc.Nat(*c.Cost))
	}
	if c.Flags != nil {
		inner += natSize(TypeFlags, enc.Nat(*c.Flags))
	}
	return TypeControlParams.EncodingLength() + enc.Nat(inner).EncodingLength() + inner
}

// Encode returns the TLV encoding of the ControlParameters.
func (c ControlParameters) Encode() []byte {
	buf := make([]byte, c.EncodingLength())
	inner := c.Name.EncodingLength()
	if c.FaceId != nil {
		inner += natSize(TypeFaceId, enc.Nat(*c.FaceId))
	}
	if c.Origin != nil {
		inner += natSize(TypeOrigin, enc.Nat(*c.Origin))
	}
	if c.Cost != nil {
		inner += natSize(TypeCost, enc.Nat(*c.Cost))
	}
	if c.Flags != nil {
		inner += natSize(TypeFlags, enc.Nat(*c.Flags))
	}

	p := TypeControlParams.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	p += c.Name.EncodeInto(buf[p:])
	if c.FaceId != nil {
		p += writeNat(buf[p:], TypeFaceId, enc.Nat(*c.FaceId))
	}
	if c.Origin != nil {
		p += writeNat(buf[p:], TypeOrigin, enc.Nat(*c.Origin))
	}
	if c.Cost != nil {
		p += writeNat(buf[p:], TypeCost, enc.Nat(*c.Cost))
	}
	if c.Flags != nil {
		p += writeNat(buf[p:], TypeFlags, enc.Nat(*c.Flags))
	}
	return buf
}

// AsNameComponent wraps the encoded ControlParameters in a single generic
// name component, as required by the command-Interest name
// "/localhost/nfd/rib/register/<encoded-params>" (spec §4.4.2).
func (c ControlParameters) AsNameComponent() enc.Component {
	return enc.NewGenericComponent(c.Encode())
}

// DecodeControlParameters parses a ControlParameters TLV (including its
// outer header) from buf.
func DecodeControlParameters(buf []byte) (ControlParameters, error) {
	typ, p1, err := enc.PeekTLNum(buf, 0)
	if err != nil {
		return ControlParameters{}, err
	}
	if typ != TypeControlParams {
		return ControlParameters{}, enc.ErrMalformed{Offset: 0, Reason: "not a ControlParameters element"}
	}
	length, p2, err := enc.PeekTLNum(buf, p1)
	if err != nil {
		return ControlParameters{}, err
	}
	start := p1 + p2
	end := start + int(length)
	if end > len(buf) {
		return ControlParameters{}, enc.ErrMalformed{Offset: 0, Reason: "ControlParameters length exceeds input"}
	}
	return decodeControlParametersValue(buf, start, end)
}

func decodeControlParametersValue(buf []byte, start, end int) (ControlParameters, error) {
	var out ControlParameters
	name, pos, err := enc.ReadName(buf, start)
	if err != nil {
		return ControlParameters{}, err
	}
	out.Name = name

	err = iterElements(buf, pos, end, func(e element) error {
		switch e.Typ {
		case TypeFaceId:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			n := uint64(v)
			out.FaceId = &n
		case TypeOrigin:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			n := uint64(v)
			out.Origin = &n
		case TypeCost:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			n := uint64(v)
			out.Cost = &n
		case TypeFlags:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			n := uint64(v)
			out.Flags = &n
		}
		return nil
	})
	return out, err
}

// ControlResponse is the Data content NFD replies with to a command
// Interest: a status code/text plus an optional echoed ControlParameters
// body (spec §4.4.2, §6).
type ControlResponse struct {
	StatusCode uint64
	StatusText string
	Body       *ControlParameters
}

// Encode returns the TLV encoding of the ControlResponse, suitable as a
// Data packet's Content.
func (r ControlResponse) Encode() []byte {
	textBytes := []byte(r.StatusText)
	inner := natSize(TypeStatusCode, enc.Nat(r.StatusCode)) + byteSize(TypeStatusText, textBytes)
	var bodyBytes []byte
	if r.Body != nil {
		bodyBytes = r.Body.Encode()
		inner += len(bodyBytes)
	}
	buf := make([]byte, TypeControlResponse.EncodingLength()+enc.Nat(inner).EncodingLength()+inner)
	p := TypeControlResponse.EncodeInto(buf)
	p += enc.Nat(inner).EncodeInto(buf[p:])
	p += writeNat(buf[p:], TypeStatusCode, enc.Nat(r.StatusCode))
	p += writeBytes(buf[p:], TypeStatusText, textBytes)
	if bodyBytes != nil {
		copy(buf[p:], bodyBytes)
		p += len(bodyBytes)
	}
	return buf
}

// DecodeControlResponse parses a ControlResponse TLV (including its outer
// header) out of a Data packet's Content.
func DecodeControlResponse(buf []byte) (ControlResponse, error) {
	typ, p1, err := enc.PeekTLNum(buf, 0)
	if err != nil {
		return ControlResponse{}, err
	}
	if typ != TypeControlResponse {
		return ControlResponse{}, enc.ErrMalformed{Offset: 0, Reason: "not a ControlResponse element"}
	}
	length, p2, err := enc.PeekTLNum(buf, p1)
	if err != nil {
		return ControlResponse{}, err
	}
	start := p1 + p2
	end := start + int(length)
	if end > len(buf) {
		return ControlResponse{}, enc.ErrMalformed{Offset: 0, Reason: "ControlResponse length exceeds input"}
	}

	var out ControlResponse
	err = iterElements(buf, start, end, func(e element) error {
		switch e.Typ {
		case TypeStatusCode:
			v, err := enc.ParseNat(buf[e.Start:e.End])
			if err != nil {
				return err
			}
			out.StatusCode = uint64(v)
		case TypeStatusText:
			out.StatusText = string(buf[e.Start:e.End])
		case TypeControlParams:
			body, err := decodeControlParametersValue(buf, e.Start, e.End)
			if err != nil {
				return err
			}
			out.Body = &body
		}
		return nil
	})
	return out, err
}

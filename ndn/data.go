package ndn

import "github.com/ndn-go/corendn/enc"

// ContentType enumerates the NDN Data ContentType field.
type ContentType int

const (
	ContentTypeBlob ContentType = iota
	ContentTypeLink
	ContentTypeKey
	ContentTypeNack
)

// MetaInfo carries the Data packet's out-of-band metadata (spec §3).
type MetaInfo struct {
	ContentType     ContentType
	FreshnessPeriod int64 // milliseconds; 0 means absent
	FinalBlockId    *enc.Component
}

// Data is the NDN response packet (spec §3). The signed portion spans Name
// through SignatureInfo inclusive; SignatureValue signs that range. Callers
// get the exact byte offsets of that range from spec2022.EncodeData /
// DecodeData rather than recomputing them.
type Data struct {
	Name      enc.Name
	MetaInfo  MetaInfo
	Content   []byte
	Signature Signature
}

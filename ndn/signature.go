package ndn

import "github.com/ndn-go/corendn/enc"

// SigType enumerates the signature variants carried in SignatureInfo.
type SigType int

const (
	SignatureDigestSha256 SigType = iota
	SignatureSha256WithRsa
	SignatureSha256WithEcdsa
	SignatureHmacWithSha256
	SignatureEd25519
)

func (t SigType) String() string {
	switch t {
	case SignatureDigestSha256:
		return "DigestSha256"
	case SignatureSha256WithRsa:
		return "Sha256WithRsa"
	case SignatureSha256WithEcdsa:
		return "Sha256WithEcdsa"
	case SignatureHmacWithSha256:
		return "HmacWithSha256"
	case SignatureEd25519:
		return "Ed25519"
	default:
		return "Unknown"
	}
}

// KeyLocatorKind tags which alternative of the KeyLocator sum type is set.
type KeyLocatorKind int

const (
	KeyLocatorNone KeyLocatorKind = iota
	KeyLocatorName
	KeyLocatorDigest
)

// KeyLocator is the tagged variant {KeyName(Name), KeyDigest(bytes), None}
// of spec §3.
type KeyLocator struct {
	Kind   KeyLocatorKind
	Name   enc.Name
	Digest []byte
}

// NewKeyLocatorName builds a KeyLocator that names the signing certificate.
func NewKeyLocatorName(name enc.Name) KeyLocator {
	return KeyLocator{Kind: KeyLocatorName, Name: name}
}

// NewKeyLocatorDigest builds a KeyLocator carrying a raw key digest.
func NewKeyLocatorDigest(digest []byte) KeyLocator {
	return KeyLocator{Kind: KeyLocatorDigest, Digest: digest}
}

// IsNone reports whether no KeyLocator is present.
func (k KeyLocator) IsNone() bool {
	return k.Kind == KeyLocatorNone
}

// Signature carries the SignatureInfo (type + optional KeyLocator) and the
// SignatureValue bytes computed over the signed portion of a Data or
// command Interest.
type Signature struct {
	Type       SigType
	KeyLocator KeyLocator
	Value      []byte
}

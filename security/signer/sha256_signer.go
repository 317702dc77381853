package signer

import (
	"bytes"
	"crypto/sha256"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
)

// sha256Signer produces DigestSha256 signatures: no key, no KeyLocator,
// just a hash of the signed portion. Useful for Data that only needs
// integrity, not provenance (spec §4.5 treats it as any other Signature).
type sha256Signer struct{}

func (sha256Signer) Type() ndn.SigType { return ndn.SignatureDigestSha256 }

func (sha256Signer) KeyLocator() ndn.KeyLocator { return ndn.KeyLocator{} }

func (sha256Signer) EstimateSize() uint { return sha256.Size }

func (sha256Signer) Sign(covered enc.Wire) ([]byte, error) {
	h := sha256.New()
	for _, buf := range covered {
		h.Write(buf)
	}
	return h.Sum(nil), nil
}

// NewSha256Signer returns a signer that produces DigestSha256 signatures.
func NewSha256Signer() ndn.Signer {
	return sha256Signer{}
}

// ValidateSha256 recomputes the digest over sigCovered and compares it
// against sig's value.
func ValidateSha256(sigCovered enc.Wire, sig ndn.Signature) bool {
	if sig.Type != ndn.SignatureDigestSha256 {
		return false
	}
	h := sha256.New()
	for _, buf := range sigCovered {
		h.Write(buf)
	}
	return bytes.Equal(h.Sum(nil), sig.Value)
}

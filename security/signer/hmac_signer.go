package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
)

// hmacSigner is a Data/command-Interest signer over a symmetric key.
// HMAC has no KeyLocator of its own (spec §4.5 treats a bare HMAC
// signature as "trust this shared secret", not "trust this named key").
type hmacSigner struct {
	key []byte
}

func (s *hmacSigner) Type() ndn.SigType { return ndn.SignatureHmacWithSha256 }

func (*hmacSigner) KeyLocator() ndn.KeyLocator { return ndn.KeyLocator{} }

func (*hmacSigner) EstimateSize() uint { return sha256.Size }

func (s *hmacSigner) Sign(covered enc.Wire) ([]byte, error) {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(covered.Join())
	return mac.Sum(nil), nil
}

// NewHmacSigner builds a signer over a raw shared key.
func NewHmacSigner(key []byte) ndn.Signer {
	return &hmacSigner{key: key}
}

// NewHmacSignerFromSecret derives a 32-byte HMAC key from a lower-entropy
// secret (e.g. a passphrase shared out of band) via HKDF-SHA256, instead
// of using the secret directly as a MAC key. salt may be nil; info
// should distinguish this key's purpose from any other derived from the
// same secret.
func NewHmacSignerFromSecret(secret, salt, info []byte) (ndn.Signer, error) {
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, info), key); err != nil {
		return nil, err
	}
	return NewHmacSigner(key), nil
}

// ValidateHmac checks a signature against a known shared key.
func ValidateHmac(sigCovered enc.Wire, sig ndn.Signature, key []byte) bool {
	if sig.Type != ndn.SignatureHmacWithSha256 {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(sigCovered.Join())
	return hmac.Equal(mac.Sum(nil), sig.Value)
}

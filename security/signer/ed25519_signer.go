package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"fmt"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
)

// ed25519Signer signs with an Ed25519 private key and names it with a
// KeyLocator, so a verifier can fetch the matching certificate (spec §4.5).
type ed25519Signer struct {
	name enc.Name
	key  ed25519.PrivateKey
}

func (s *ed25519Signer) Type() ndn.SigType { return ndn.SignatureEd25519 }

func (s *ed25519Signer) KeyLocator() ndn.KeyLocator { return ndn.NewKeyLocatorName(s.name) }

func (*ed25519Signer) EstimateSize() uint { return ed25519.SignatureSize }

func (s *ed25519Signer) Sign(covered enc.Wire) ([]byte, error) {
	return ed25519.Sign(s.key, covered.Join()), nil
}

// NewEd25519Signer builds a signer naming certName as its KeyLocator.
func NewEd25519Signer(certName enc.Name, key ed25519.PrivateKey) ndn.Signer {
	return &ed25519Signer{name: certName, key: key}
}

// KeygenEd25519 generates a fresh Ed25519 key pair and wraps the private
// half in a signer naming certName.
func KeygenEd25519(certName enc.Name) (ndn.Signer, ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return NewEd25519Signer(certName, priv), pub, nil
}

// ParseEd25519PrivateKey parses a PKCS#8-encoded Ed25519 private key, as
// would be read back out of a certificate's paired private key file.
func ParseEd25519PrivateKey(certName enc.Name, der []byte) (ndn.Signer, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signer: not an Ed25519 private key")
	}
	return NewEd25519Signer(certName, key), nil
}

// ValidateEd25519 verifies sig against a known Ed25519 public key, as
// extracted from the certificate KeyLocator named.
func ValidateEd25519(sigCovered enc.Wire, sig ndn.Signature, pub ed25519.PublicKey) bool {
	if sig.Type != ndn.SignatureEd25519 {
		return false
	}
	return ed25519.Verify(pub, sigCovered.Join(), sig.Value)
}

// ParseEd25519PublicKey parses an SPKI-encoded Ed25519 public key, the
// format a certificate's Content carries (spec §4.5's certificate
// payload is treated as opaque by the core; this is how a KeyChain
// implementation interprets it for this key type).
func ParseEd25519PublicKey(der []byte) (ed25519.PublicKey, error) {
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	pub, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("signer: not an Ed25519 public key")
	}
	return pub, nil
}

package signer_test

import (
	"testing"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/security/signer"
	"github.com/stretchr/testify/require"
)

func TestSha256SignAndValidate(t *testing.T) {
	s := signer.NewSha256Signer()
	covered := enc.Wire{[]byte("hello"), []byte("world")}

	value, err := s.Sign(covered)
	require.NoError(t, err)

	sig := ndn.Signature{Type: ndn.SignatureDigestSha256, Value: value}
	require.True(t, signer.ValidateSha256(covered, sig))

	sig.Value[0] ^= 0xff
	require.False(t, signer.ValidateSha256(covered, sig))
}

func TestHmacSignAndValidate(t *testing.T) {
	key := []byte("a shared secret key")
	s := signer.NewHmacSigner(key)
	covered := enc.Wire{[]byte("command interest name")}

	value, err := s.Sign(covered)
	require.NoError(t, err)
	sig := ndn.Signature{Type: ndn.SignatureHmacWithSha256, Value: value}

	require.True(t, signer.ValidateHmac(covered, sig, key))
	require.False(t, signer.ValidateHmac(covered, sig, []byte("wrong key")))
}

func TestHmacSignerFromSecretDerivesDeterministically(t *testing.T) {
	secret := []byte("low entropy passphrase")
	s1, err := signer.NewHmacSignerFromSecret(secret, nil, []byte("chat"))
	require.NoError(t, err)
	s2, err := signer.NewHmacSignerFromSecret(secret, nil, []byte("chat"))
	require.NoError(t, err)

	covered := enc.Wire{[]byte("x")}
	v1, err := s1.Sign(covered)
	require.NoError(t, err)
	v2, err := s2.Sign(covered)
	require.NoError(t, err)
	require.Equal(t, v1, v2)

	s3, err := signer.NewHmacSignerFromSecret(secret, nil, []byte("other purpose"))
	require.NoError(t, err)
	v3, err := s3.Sign(covered)
	require.NoError(t, err)
	require.NotEqual(t, v1, v3)
}

func TestEd25519KeygenSignAndValidate(t *testing.T) {
	certName, err := enc.ParseName("/alice/KEY/1")
	require.NoError(t, err)

	s, pub, err := signer.KeygenEd25519(certName)
	require.NoError(t, err)
	require.True(t, s.KeyLocator().Name.Equal(certName))

	covered := enc.Wire{[]byte("data to sign")}
	value, err := s.Sign(covered)
	require.NoError(t, err)
	sig := ndn.Signature{Type: ndn.SignatureEd25519, Value: value}

	require.True(t, signer.ValidateEd25519(covered, sig, pub))

	sig.Value[0] ^= 0xff
	require.False(t, signer.ValidateEd25519(covered, sig, pub))
}

func TestEd25519WrongSignatureTypeFailsValidation(t *testing.T) {
	sig := ndn.Signature{Type: ndn.SignatureDigestSha256, Value: make([]byte, 64)}
	_, pub, err := signer.KeygenEd25519(enc.Name{})
	require.NoError(t, err)
	require.False(t, signer.ValidateEd25519(enc.Wire{[]byte("x")}, sig, pub))
}

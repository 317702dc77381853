package keychain_test

import (
	"testing"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/node"
	"github.com/ndn-go/corendn/security/keychain"
	"github.com/ndn-go/corendn/security/signer"
	"github.com/ndn-go/corendn/spec2022"
	"github.com/stretchr/testify/require"
)

func TestSignDataAndVerifyDataWithTrustEveryone(t *testing.T) {
	kc := keychain.NewMemKeyChain(keychain.TrustEveryone{}, node.NewCommandInterestGeneratorWithClock(node.NewVirtualClock()))
	certName, err := enc.ParseName("/alice/KEY/1")
	require.NoError(t, err)
	kc.InsertKey(certName, signer.NewSha256Signer())

	name, err := enc.ParseName("/alice/data/1")
	require.NoError(t, err)
	d := &ndn.Data{Name: name, Content: []byte("payload")}

	require.NoError(t, kc.SignData(d, certName))
	require.Equal(t, ndn.SignatureDigestSha256, d.Signature.Type)

	var validated bool
	kc.VerifyData(d, nil, 0,
		func(*ndn.Data) { validated = true },
		func(*ndn.Data, string) { t.Fatal("unexpected validation failure") },
	)
	require.True(t, validated)
}

func TestVerifyDataFailsUnderTrustAnchorForWrongKey(t *testing.T) {
	anchorName, err := enc.ParseName("/trusted/KEY/1")
	require.NoError(t, err)
	anchor := keychain.NewTrustAnchor(anchorName)

	kc := keychain.NewMemKeyChain(anchor, node.NewCommandInterestGeneratorWithClock(node.NewVirtualClock()))
	otherName, err := enc.ParseName("/untrusted/KEY/1")
	require.NoError(t, err)
	kc.InsertKey(otherName, signer.NewSha256Signer())

	name, err := enc.ParseName("/untrusted/data/1")
	require.NoError(t, err)
	d := &ndn.Data{Name: name, Content: []byte("payload")}
	require.NoError(t, kc.SignData(d, otherName))

	var failed bool
	kc.VerifyData(d, nil, 0,
		func(*ndn.Data) { t.Fatal("unexpected validation success") },
		func(_ *ndn.Data, reason string) {
			failed = true
			require.Contains(t, reason, "not a trust anchor")
		},
	)
	require.True(t, failed)
}

func TestSignInterestAppendsSuffixAndVerifyInterestSucceeds(t *testing.T) {
	kc := keychain.NewMemKeyChain(keychain.TrustEveryone{}, node.NewCommandInterestGeneratorWithClock(node.NewVirtualClock()))
	certName, err := enc.ParseName("/alice/KEY/1")
	require.NoError(t, err)
	kc.InsertKey(certName, signer.NewSha256Signer())

	base, err := enc.ParseName("/localhost/nfd/rib/register")
	require.NoError(t, err)
	interest := &ndn.Interest{Name: base}

	require.NoError(t, kc.SignInterest(interest, certName))
	require.Equal(t, len(base)+4, len(interest.Name))

	loc, err := keychain.SignedInterestKeyLocator(interest.Name)
	require.NoError(t, err)
	require.Equal(t, ndn.KeyLocatorName, loc.Kind)

	var validated bool
	kc.VerifyInterest(interest, nil, 0,
		func(*ndn.Interest) { validated = true },
		func(*ndn.Interest, string) { t.Fatal("unexpected validation failure") },
	)
	require.True(t, validated)
}

func TestSignedInterestKeyLocatorRejectsShortName(t *testing.T) {
	name, err := enc.ParseName("/too/short")
	require.NoError(t, err)
	_, err = keychain.SignedInterestKeyLocator(name)
	require.Error(t, err)
}

func TestVerifyDataRecursesThroughCertFetcher(t *testing.T) {
	rootName, err := enc.ParseName("/root/KEY/1")
	require.NoError(t, err)
	anchor := keychain.NewTrustAnchor(rootName)

	kc := keychain.NewMemKeyChain(anchor, node.NewCommandInterestGeneratorWithClock(node.NewVirtualClock()))
	kc.InsertKey(rootName, signer.NewSha256Signer())

	leafCertName, err := enc.ParseName("/leaf/KEY/1")
	require.NoError(t, err)
	kc.InsertKey(leafCertName, signer.NewSha256Signer())

	certDataName, err := enc.ParseName("/leaf/KEY/1/cert")
	require.NoError(t, err)
	cert := &ndn.Data{Name: certDataName, Content: []byte("cert body")}
	require.NoError(t, kc.SignData(cert, rootName))
	certWire, _, _, err := spec2022.EncodeData(cert)
	require.NoError(t, err)

	name, err := enc.ParseName("/leaf/data/1")
	require.NoError(t, err)
	d := &ndn.Data{Name: name, Content: []byte("payload")}
	require.NoError(t, kc.SignData(d, leafCertName))

	fetcher := fakeCertFetcher{wire: certWire}
	var validated bool
	kc.VerifyData(d, fetcher, 2,
		func(*ndn.Data) { validated = true },
		func(_ *ndn.Data, reason string) { t.Fatalf("unexpected validation failure: %s", reason) },
	)
	require.True(t, validated)
}

type fakeCertFetcher struct {
	wire []byte
}

func (f fakeCertFetcher) FetchCert(_ enc.Name, onData func([]byte), _ func(error)) {
	onData(f.wire)
}

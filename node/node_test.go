package node_test

import (
	"testing"
	"time"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/face"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/node"
	"github.com/ndn-go/corendn/security/keychain"
	"github.com/ndn-go/corendn/security/signer"
	"github.com/ndn-go/corendn/spec2022"
	"github.com/stretchr/testify/require"
)

func mustParseName(t *testing.T, uri string) enc.Name {
	t.Helper()
	n, err := enc.ParseName(uri)
	require.NoError(t, err)
	return n
}

// injectData encodes d with a throwaway DigestSha256 signature and feeds
// it to transport as if it had just arrived from the peer.
func injectData(t *testing.T, transport *face.MemTransport, d *ndn.Data) {
	t.Helper()
	d.Signature = ndn.Signature{Type: ndn.SignatureDigestSha256, Value: make([]byte, 32)}
	wire, begin, end, err := spec2022.EncodeData(d)
	require.NoError(t, err)
	value, err := signer.NewSha256Signer().Sign(enc.Wire{wire[begin:end]})
	require.NoError(t, err)
	d.Signature.Value = value
	wire, _, _, err = spec2022.EncodeData(d)
	require.NoError(t, err)
	transport.Inject(wire)
}

// S2 (spec §8): express_interest(/x, on_data, on_timeout), inject Data
// named /x/y. on_data fires exactly once and the PIT ends up empty.
func TestExpressInterestMatchesData(t *testing.T) {
	transport := face.NewMemTransport(true)
	n, err := node.New(transport, face.ConnectionInfo{Network: "mem"})
	require.NoError(t, err)

	var calls int
	var gotName enc.Name
	onData := func(_ *ndn.Interest, data *ndn.Data) {
		calls++
		gotName = data.Name
	}
	onTimeout := func(*ndn.Interest) { t.Fatal("onTimeout must not fire") }

	id, err := n.ExpressInterest(&ndn.Interest{Name: mustParseName(t, "/x"), LifetimeMs: 4000}, onData, onTimeout)
	require.NoError(t, err)
	require.NotZero(t, id)

	injectData(t, transport, &ndn.Data{Name: mustParseName(t, "/x/y")})
	n.ProcessEvents()

	require.Equal(t, 1, calls)
	require.True(t, gotName.Equal(mustParseName(t, "/x/y")))

	// PIT is empty afterward: a second Data under /x must not fire onData
	// again.
	injectData(t, transport, &ndn.Data{Name: mustParseName(t, "/x/z")})
	n.ProcessEvents()
	require.Equal(t, 1, calls)
}

// S3 (spec §8): a 100ms Interest's onTimeout fires once, only once the
// virtual clock reaches 100ms, never before and never again after.
func TestExpressInterestTimeout(t *testing.T) {
	transport := face.NewMemTransport(true)
	clock := node.NewVirtualClock()
	n, err := node.NewWithClock(transport, face.ConnectionInfo{Network: "mem"}, clock)
	require.NoError(t, err)

	var timeouts int
	onData := func(*ndn.Interest, *ndn.Data) { t.Fatal("onData must not fire") }
	onTimeout := func(*ndn.Interest) { timeouts++ }

	_, err = n.ExpressInterest(&ndn.Interest{Name: mustParseName(t, "/never"), LifetimeMs: 100}, onData, onTimeout)
	require.NoError(t, err)

	clock.Advance(99 * time.Millisecond)
	n.ProcessEvents()
	require.Equal(t, 0, timeouts)

	clock.Advance(1 * time.Millisecond)
	n.ProcessEvents()
	require.Equal(t, 1, timeouts)

	clock.Advance(100 * time.Millisecond)
	n.ProcessEvents()
	require.Equal(t, 1, timeouts)
}

// S4 (spec §8): remove_pending_interest immediately after express_interest
// cancels it outright; advancing past the original lifetime must not fire
// either callback.
func TestRemovePendingInterestCancelsBeforeTimeout(t *testing.T) {
	transport := face.NewMemTransport(true)
	clock := node.NewVirtualClock()
	n, err := node.NewWithClock(transport, face.ConnectionInfo{Network: "mem"}, clock)
	require.NoError(t, err)

	onData := func(*ndn.Interest, *ndn.Data) { t.Fatal("onData must not fire") }
	onTimeout := func(*ndn.Interest) { t.Fatal("onTimeout must not fire") }

	id, err := n.ExpressInterest(&ndn.Interest{Name: mustParseName(t, "/cancelled"), LifetimeMs: 100}, onData, onTimeout)
	require.NoError(t, err)
	n.RemovePendingInterest(id)

	clock.Advance(200 * time.Millisecond)
	n.ProcessEvents()

	injectData(t, transport, &ndn.Data{Name: mustParseName(t, "/cancelled")})
	n.ProcessEvents()
}

// S5 (spec §8): RegisterPrefix succeeds when the forwarder's
// ControlResponse reports status 200; the registered Interest Filter then
// fires on a matching Interest and onRegisterFailed never runs.
func TestRegisterPrefixSuccess(t *testing.T) {
	transport := face.NewMemTransport(true)
	n, err := node.New(transport, face.ConnectionInfo{Network: "mem"})
	require.NoError(t, err)

	kc := keychain.NewMemKeyChain(keychain.TrustEveryone{}, n.CommandInterestGenerator())
	certName := mustParseName(t, "/test/KEY/self")
	kc.InsertKey(certName, signer.NewSha256Signer())

	var interestCalls int
	onInterest := func(_ enc.Name, _ *ndn.Interest, _ face.Transport, _ uint64, _ ndn.InterestFilter) {
		interestCalls++
	}
	onRegisterFailed := func(enc.Name) { t.Fatal("onRegisterFailed must not fire") }

	prefix := mustParseName(t, "/my/app")
	id := n.RegisterPrefix(prefix, onInterest, onRegisterFailed, node.FlagChildInherit, kc, certName)
	require.NotZero(t, id)

	sent := transport.Sent()
	require.Len(t, sent, 1)
	cmdInterest, err := spec2022.DecodeInterest(sent[0])
	require.NoError(t, err)
	require.True(t, cmdInterest.Name.SubName(0, 4).Equal(mustParseName(t, "/localhost/nfd/rib/register")))

	resp := spec2022.ControlResponse{StatusCode: 200, StatusText: "OK"}
	injectData(t, transport, &ndn.Data{Name: cmdInterest.Name, Content: resp.Encode()})
	n.ProcessEvents()
	transport.Sent()

	matchInterest := &ndn.Interest{Name: mustParseName(t, "/my/app/hello"), Nonce: [4]byte{9, 9, 9, 9}}
	wire, err := spec2022.EncodeInterest(matchInterest)
	require.NoError(t, err)
	transport.Inject(wire)
	n.ProcessEvents()

	require.Equal(t, 1, interestCalls)
}

package spec2022_test

import (
	"testing"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/spec2022"
	"github.com/stretchr/testify/require"
)

// S1 from spec §8: Interest{name=/a/b, nonce=0x01020304, lifetime=4000}
// must encode to this exact byte sequence.
func TestEncodeInterestS1(t *testing.T) {
	name, err := enc.ParseName("/a/b")
	require.NoError(t, err)

	interest := &ndn.Interest{
		Name:       name,
		Nonce:      [4]byte{0x01, 0x02, 0x03, 0x04},
		LifetimeMs: 4000,
	}

	wire, err := spec2022.EncodeInterest(interest)
	require.NoError(t, err)

	expected := []byte{
		0x05, 0x12, // Interest, length 18
		0x07, 0x06, // Name, length 6
		0x08, 0x01, 'a',
		0x08, 0x01, 'b',
		0x0A, 0x04, 0x01, 0x02, 0x03, 0x04, // Nonce
		0x0C, 0x02, 0x0F, 0xA0, // InterestLifetime = 4000
	}
	require.Equal(t, expected, wire)
}

// Spec §8 invariant 1: decode(encode(i)) == i for well-formed Interests.
func TestInterestRoundTrip(t *testing.T) {
	name, err := enc.ParseName("/a/b/c")
	require.NoError(t, err)
	min, max := 1, 3
	child := ndn.ChildSelectorRight

	original := &ndn.Interest{
		Name:  name,
		Nonce: [4]byte{0xAA, 0xBB, 0xCC, 0xDD},
		Selectors: ndn.Selectors{
			MinSuffixComponents: &min,
			MaxSuffixComponents: &max,
			ChildSelector:       &child,
			MustBeFresh:         true,
		},
		LifetimeMs: 9000,
	}

	wire, err := spec2022.EncodeInterest(original)
	require.NoError(t, err)

	decoded, err := spec2022.DecodeInterest(wire)
	require.NoError(t, err)

	require.True(t, decoded.Name.Equal(original.Name))
	require.Equal(t, original.Nonce, decoded.Nonce)
	require.Equal(t, original.LifetimeMs, decoded.LifetimeMs)
	require.Equal(t, *original.Selectors.MinSuffixComponents, *decoded.Selectors.MinSuffixComponents)
	require.Equal(t, *original.Selectors.MaxSuffixComponents, *decoded.Selectors.MaxSuffixComponents)
	require.Equal(t, *original.Selectors.ChildSelector, *decoded.Selectors.ChildSelector)
	require.True(t, decoded.Selectors.MustBeFresh)
}

// LifetimeMs < 0 means "absent": no InterestLifetime sub-element is
// written, and the round trip preserves absence.
func TestInterestNoLifetime(t *testing.T) {
	name, err := enc.ParseName("/x")
	require.NoError(t, err)
	original := &ndn.Interest{Name: name, Nonce: [4]byte{1, 1, 1, 1}, LifetimeMs: -1}

	wire, err := spec2022.EncodeInterest(original)
	require.NoError(t, err)
	decoded, err := spec2022.DecodeInterest(wire)
	require.NoError(t, err)

	_, present := decoded.Lifetime()
	require.False(t, present)
}

// MaxNdnPacketSize (spec §6) is a Node-layer concern; DecodeInterest
// itself still has to reject inputs whose declared Interest LENGTH runs
// past the buffer (spec §4.1's MalformedTlv).
func TestDecodeInterestTruncated(t *testing.T) {
	_, err := spec2022.DecodeInterest([]byte{0x05, 0x10, 0x07, 0x02})
	require.Error(t, err)
}

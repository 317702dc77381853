package enc_test

import (
	"testing"

	"github.com/ndn-go/corendn/enc"
	"github.com/stretchr/testify/require"
)

func TestParseNameAndString(t *testing.T) {
	n, err := enc.ParseName("/a/b/c")
	require.NoError(t, err)
	require.Len(t, n, 3)
	require.Equal(t, "/a/b/c", n.String())
}

func TestParseNameEmptyAndScheme(t *testing.T) {
	root, err := enc.ParseName("/")
	require.NoError(t, err)
	require.Len(t, root, 0)
	require.Equal(t, "/", root.String())

	withScheme, err := enc.ParseName("ndn:/a/b")
	require.NoError(t, err)
	plain, err := enc.ParseName("/a/b")
	require.NoError(t, err)
	require.True(t, withScheme.Equal(plain))
}

func TestNameEncodeDecodeRoundTrip(t *testing.T) {
	n, err := enc.ParseName("/hello/world")
	require.NoError(t, err)

	wire := n.Bytes()
	decoded, next, err := enc.ReadName(wire, 0)
	require.NoError(t, err)
	require.Equal(t, len(wire), next)
	require.True(t, n.Equal(decoded))
}

func TestNameIsPrefixOfAndMatchesName(t *testing.T) {
	prefix, err := enc.ParseName("/a/b")
	require.NoError(t, err)
	longer, err := enc.ParseName("/a/b/c")
	require.NoError(t, err)
	other, err := enc.ParseName("/a/x")
	require.NoError(t, err)

	require.True(t, prefix.IsPrefixOf(longer))
	require.True(t, prefix.MatchesName(longer))
	require.True(t, prefix.MatchesName(prefix))
	require.False(t, prefix.IsPrefixOf(other))
	require.False(t, longer.IsPrefixOf(prefix))
}

func TestNameCompareCanonicalOrder(t *testing.T) {
	short, err := enc.ParseName("/a")
	require.NoError(t, err)
	long, err := enc.ParseName("/a/b")
	require.NoError(t, err)
	require.Negative(t, short.Compare(long))
	require.Positive(t, long.Compare(short))

	a, err := enc.ParseName("/aa")
	require.NoError(t, err)
	b, err := enc.ParseName("/ab")
	require.NoError(t, err)
	require.Negative(t, a.Compare(b))
}

func TestNameSubNameClamping(t *testing.T) {
	n, err := enc.ParseName("/a/b/c/d")
	require.NoError(t, err)

	require.True(t, n.SubName(1, 2).Equal(enc.Name{
		enc.NewStringComponent("b"),
		enc.NewStringComponent("c"),
	}))
	require.True(t, n.SubName(2, -1).Equal(enc.Name{
		enc.NewStringComponent("c"),
		enc.NewStringComponent("d"),
	}))
	require.Len(t, n.SubName(10, -1), 0)
}

func TestNameGetNegativeIndex(t *testing.T) {
	n, err := enc.ParseName("/a/b/c")
	require.NoError(t, err)

	last, ok := n.Get(-1)
	require.True(t, ok)
	require.Equal(t, "c", last.String())

	_, ok = n.Get(-10)
	require.False(t, ok)
}

func TestComponentEscapingRoundTrip(t *testing.T) {
	c := enc.NewGenericComponent([]byte{0x00, 0x2f, 0xff})
	s := c.String()
	parsed, err := enc.ParseComponent(s)
	require.NoError(t, err)
	require.True(t, c.Equal(parsed))
}

func TestComponentAllDotsEscaping(t *testing.T) {
	c := enc.NewStringComponent(".")
	s := c.String()
	require.Equal(t, "..", s)
	parsed, err := enc.ParseComponent(s)
	require.NoError(t, err)
	require.True(t, c.Equal(parsed))
}

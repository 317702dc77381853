package elemreader_test

import (
	"testing"

	"github.com/ndn-go/corendn/elemreader"
	"github.com/stretchr/testify/require"
)

// A full element delivered in one Feed call comes out unchanged.
func TestReaderSingleElement(t *testing.T) {
	r := elemreader.NewReader()
	elem := []byte{0x07, 0x03, 0x08, 0x01, 'a'}

	var got [][]byte
	err := r.Feed(elem, func(e []byte) {
		got = append(got, append([]byte{}, e...))
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, elem, got[0])
}

// Spec §8 byte-stream chunking invariant: splitting one element across
// many arbitrarily small Feed calls must not change what comes out, and
// must not fire onElement until the element is actually complete.
func TestReaderArbitraryChunking(t *testing.T) {
	r := elemreader.NewReader()
	elem := []byte{0x07, 0x05, 0x08, 0x03, 'a', 'b', 'c'}

	var got [][]byte
	for i := 0; i < len(elem); i++ {
		err := r.Feed(elem[i:i+1], func(e []byte) {
			got = append(got, append([]byte{}, e...))
		})
		require.NoError(t, err)
		if i < len(elem)-1 {
			require.Empty(t, got, "onElement must not fire before the element is complete")
		}
	}
	require.Len(t, got, 1)
	require.Equal(t, elem, got[0])
}

// Two back-to-back elements fed as a single chunk both come out, in order.
func TestReaderMultipleElementsInOneChunk(t *testing.T) {
	r := elemreader.NewReader()
	first := []byte{0x07, 0x03, 0x08, 0x01, 'a'}
	second := []byte{0x07, 0x03, 0x08, 0x01, 'b'}

	var got [][]byte
	err := r.Feed(append(append([]byte{}, first...), second...), func(e []byte) {
		got = append(got, append([]byte{}, e...))
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, first, got[0])
	require.Equal(t, second, got[1])
}

// A long run of small elements fed as one chunk all come out, each one
// passing through the Feed loop's compaction of consumed bytes.
func TestReaderManySmallElementsInOneChunk(t *testing.T) {
	r := elemreader.NewReader()
	one := []byte{0x07, 0x01, 0x08}
	var stream []byte
	for i := 0; i < 1000; i++ {
		stream = append(stream, one...)
	}

	count := 0
	err := r.Feed(stream, func([]byte) { count++ })
	require.NoError(t, err)
	require.Equal(t, 1000, count)
}

package spec2022_test

import (
	"testing"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/security/signer"
	"github.com/ndn-go/corendn/spec2022"
	"github.com/stretchr/testify/require"
)

// Spec §8 invariant 1: decode(encode(d)) == d for well-formed Data,
// including MetaInfo's optional fields and a FinalBlockId.
func TestDataRoundTrip(t *testing.T) {
	name, err := enc.ParseName("/a/b/v1")
	require.NoError(t, err)
	finalBlock := enc.NewStringComponent("seg=9")

	original := &ndn.Data{
		Name: name,
		MetaInfo: ndn.MetaInfo{
			ContentType:     ndn.ContentTypeBlob,
			FreshnessPeriod: 4000,
			FinalBlockId:    &finalBlock,
		},
		Content: []byte("hello world"),
	}
	original.Signature = ndn.Signature{Type: ndn.SignatureDigestSha256, Value: make([]byte, 32)}

	wire, begin, end, err := spec2022.EncodeData(original)
	require.NoError(t, err)
	value, err := signer.NewSha256Signer().Sign(enc.Wire{wire[begin:end]})
	require.NoError(t, err)
	original.Signature.Value = value
	wire, begin, end, err = spec2022.EncodeData(original)
	require.NoError(t, err)

	decoded, dBegin, dEnd, err := spec2022.DecodeData(wire)
	require.NoError(t, err)
	require.Equal(t, begin, dBegin)
	require.Equal(t, end, dEnd)

	require.True(t, decoded.Name.Equal(original.Name))
	require.Equal(t, original.Content, decoded.Content)
	require.Equal(t, original.MetaInfo.FreshnessPeriod, decoded.MetaInfo.FreshnessPeriod)
	require.NotNil(t, decoded.MetaInfo.FinalBlockId)
	require.True(t, decoded.MetaInfo.FinalBlockId.Equal(finalBlock))
	require.Equal(t, original.Signature.Type, decoded.Signature.Type)
	require.True(t, signer.ValidateSha256(enc.Wire{wire[dBegin:dEnd]}, decoded.Signature))
}

// A Data with no optional MetaInfo fields encodes an empty MetaInfo
// element rather than omitting it.
func TestDataEmptyMetaInfo(t *testing.T) {
	name, err := enc.ParseName("/x")
	require.NoError(t, err)
	d := &ndn.Data{Name: name, MetaInfo: ndn.MetaInfo{ContentType: ndn.ContentTypeBlob}}
	d.Signature = ndn.Signature{Type: ndn.SignatureDigestSha256, Value: make([]byte, 32)}

	wire, _, _, err := spec2022.EncodeData(d)
	require.NoError(t, err)

	decoded, _, _, err := spec2022.DecodeData(wire)
	require.NoError(t, err)
	require.Nil(t, decoded.MetaInfo.FinalBlockId)
	require.Zero(t, decoded.MetaInfo.FreshnessPeriod)
}

func TestDecodeDataTruncated(t *testing.T) {
	_, _, _, err := spec2022.DecodeData([]byte{0x06, 0x10, 0x07, 0x02})
	require.Error(t, err)
}

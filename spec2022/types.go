// Package spec2022 implements the concrete NDN TLV wire format for
// Interest and Data packets, plus the NFD management ControlParameters /
// ControlResponse TLVs used by prefix registration (spec §4.1, §6).
package spec2022

import "github.com/ndn-go/corendn/enc"

// Packet and sub-element type codes (spec §6).
const (
	TypeInterest             enc.TLNum = 0x05
	TypeData                 enc.TLNum = 0x06
	TypeSelectors            enc.TLNum = 0x09
	TypeNonce                enc.TLNum = 0x0A
	TypeScope                enc.TLNum = 0x0B
	TypeInterestLifetime     enc.TLNum = 0x0C
	TypeMinSuffixComponents  enc.TLNum = 0x0D
	TypeMaxSuffixComponents  enc.TLNum = 0x0E
	TypePublisherKeyLocator  enc.TLNum = 0x0F
	TypeExclude              enc.TLNum = 0x10
	TypeChildSelector        enc.TLNum = 0x11
	TypeMustBeFresh          enc.TLNum = 0x12
	TypeAny                  enc.TLNum = 0x13
	TypeMetaInfo             enc.TLNum = 0x14
	TypeContent              enc.TLNum = 0x15
	TypeSignatureInfo        enc.TLNum = 0x16
	TypeSignatureValue       enc.TLNum = 0x17
	TypeContentType          enc.TLNum = 0x18
	TypeFreshnessPeriod      enc.TLNum = 0x19
	TypeFinalBlockId         enc.TLNum = 0x1A
	TypeSignatureType        enc.TLNum = 0x1B
	TypeKeyLocator           enc.TLNum = 0x1C
	TypeKeyDigest            enc.TLNum = 0x1D

	// NFD management (spec §6).
	TypeControlResponse enc.TLNum = 0x65
	TypeStatusCode      enc.TLNum = 0x66
	TypeStatusText      enc.TLNum = 0x67
	TypeControlParams   enc.TLNum = 0x68
	TypeFaceId          enc.TLNum = 0x69
	TypeCost            enc.TLNum = 0x6A
	TypeFlags           enc.TLNum = 0x6C
	TypeOrigin          enc.TLNum = 0x6F
)

// Package sync implements ChronoSync (spec §4.6): a digest-tree dataset
// synchronization protocol exchanged over plain Interest/Data. The wire
// content of sync Data is a small protobuf message, matching the
// original ndn-cpp ChronoSync's sync-state.pb.h; this package hand-rolls
// that message's wire codec with google.golang.org/protobuf's low-level
// protowire primitives rather than running protoc, the same way
// other_examples' hyperpb compiler builds protobuf wire bytes without
// generated code.
package sync

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// SyncState is one UPDATE entry of a sync round: a producer's prefix
// together with the session and sequence number it has just reached
// (spec §3's digest tree node, carried as the payload of sync Data).
type SyncState struct {
	Name    string
	Session uint64
	Seqno   uint64
}

const (
	fieldStateName    = 1
	fieldStateSession = 2
	fieldStateSeqno   = 3
	fieldMsgStates    = 1
)

func (s SyncState) marshal(b []byte) []byte {
	b = protowire.AppendTag(b, fieldStateName, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	b = protowire.AppendTag(b, fieldStateSession, protowire.VarintType)
	b = protowire.AppendVarint(b, s.Session)
	b = protowire.AppendTag(b, fieldStateSeqno, protowire.VarintType)
	b = protowire.AppendVarint(b, s.Seqno)
	return b
}

func unmarshalState(buf []byte) (SyncState, error) {
	var s SyncState
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return SyncState{}, fmt.Errorf("sync: malformed SyncState tag: %w", protowire.ParseError(n))
		}
		buf = buf[n:]
		switch {
		case num == fieldStateName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(buf)
			if n < 0 {
				return SyncState{}, fmt.Errorf("sync: malformed SyncState.name: %w", protowire.ParseError(n))
			}
			s.Name = v
			buf = buf[n:]
		case num == fieldStateSession && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return SyncState{}, fmt.Errorf("sync: malformed SyncState.session: %w", protowire.ParseError(n))
			}
			s.Session = v
			buf = buf[n:]
		case num == fieldStateSeqno && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return SyncState{}, fmt.Errorf("sync: malformed SyncState.seqno: %w", protowire.ParseError(n))
			}
			s.Seqno = v
			buf = buf[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return SyncState{}, fmt.Errorf("sync: malformed SyncState field %d: %w", num, protowire.ParseError(n))
			}
			buf = buf[n:]
		}
	}
	return s, nil
}

// EncodeSyncStates marshals a sync Data's content: a repeated SyncState
// message (spec §4.6's "Data whose content is the concatenated SyncState
// deltas").
func EncodeSyncStates(states []SyncState) []byte {
	var b []byte
	for _, s := range states {
		b = protowire.AppendTag(b, fieldMsgStates, protowire.BytesType)
		b = protowire.AppendBytes(b, s.marshal(nil))
	}
	return b
}

// DecodeSyncStates parses a sync Data's content back into SyncStates.
func DecodeSyncStates(buf []byte) ([]SyncState, error) {
	var out []SyncState
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, fmt.Errorf("sync: malformed SyncStateMsg tag: %w", protowire.ParseError(n))
		}
		buf = buf[n:]
		if num != fieldMsgStates || typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return nil, fmt.Errorf("sync: malformed SyncStateMsg field %d: %w", num, protowire.ParseError(n))
			}
			buf = buf[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(buf)
		if n < 0 {
			return nil, fmt.Errorf("sync: malformed SyncStateMsg.ss: %w", protowire.ParseError(n))
		}
		buf = buf[n:]
		state, err := unmarshalState(v)
		if err != nil {
			return nil, err
		}
		out = append(out, state)
	}
	return out, nil
}

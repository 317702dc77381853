// Package elemreader implements single-element framing over a byte stream
// (spec §4.2): TLV packets are self-delimiting, so framing never needs an
// out-of-band length prefix, only enough buffered bytes to see a complete
// TYPE|LENGTH|VALUE.
package elemreader

import "github.com/ndn-go/corendn/enc"

// Reader consumes arbitrarily chunked bytes and emits complete TLV
// elements in the order they were written by the peer, regardless of how
// the chunks happened to be split.
type Reader struct {
	buf []byte // buffered bytes, always starting at a fresh element boundary
	pos int    // number of valid bytes currently in buf
}

// NewReader constructs an empty Reader with a small initial capacity.
func NewReader() *Reader {
	return &Reader{buf: make([]byte, 256)}
}

// grow doubles the buffer's capacity, preserving the first r.pos bytes.
func (r *Reader) grow(atLeast int) {
	newCap := len(r.buf) * 2
	if newCap < atLeast {
		newCap = atLeast
	}
	nb := make([]byte, newCap)
	copy(nb, r.buf[:r.pos])
	r.buf = nb
}

// Feed appends chunk to the internal buffer and calls onElement once per
// complete TLV element now available, in order. Any trailing partial
// element is retained for the next call. onElement must not retain the
// slice it is given beyond the call; Feed reuses the backing array.
func (r *Reader) Feed(chunk []byte, onElement func(elem []byte)) error {
	for len(chunk) > 0 {
		room := len(r.buf) - r.pos
		if room < len(chunk) {
			r.grow(r.pos + len(chunk))
		}
		n := copy(r.buf[r.pos:], chunk)
		r.pos += n
		chunk = chunk[n:]

		for {
			consumed, ok, err := r.tryExtract(onElement)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			// Shift the unconsumed remainder to the front so the buffer
			// stays bounded even under a long stream of small elements.
			remaining := r.pos - consumed
			copy(r.buf[:remaining], r.buf[consumed:r.pos])
			r.pos = remaining
		}
	}
	return nil
}

// tryExtract attempts to peel exactly one complete element off the front
// of the buffered bytes. ok is false if the buffer doesn't yet hold a
// complete element (and no error occurred).
func (r *Reader) tryExtract(onElement func(elem []byte)) (consumed int, ok bool, err error) {
	if r.pos == 0 {
		return 0, false, nil
	}
	typ, p1, tErr := enc.PeekTLNum(r.buf[:r.pos], 0)
	if tErr != nil {
		// Not a decode error yet - just not enough bytes buffered.
		return 0, false, nil
	}
	_ = typ
	if p1 >= r.pos {
		return 0, false, nil
	}
	length, p2, lErr := enc.PeekTLNum(r.buf[:r.pos], p1)
	if lErr != nil {
		return 0, false, nil
	}
	total := p1 + p2 + int(length)
	if total > r.pos {
		return 0, false, nil
	}
	onElement(r.buf[:total])
	return total, true, nil
}

// Package enc implements the NDN TLV wire primitives: variable-length
// integers, name components, and names. Packet-level (Interest/Data)
// encoding lives in the spec2022 package, which is built on top of this one.
package enc

// Buffer is a contiguous slice of wire bytes.
type Buffer []byte

// Wire is a sequence of Buffers that together form one encoded element.
// Keeping it as a slice-of-slices lets encoders avoid copying sub-elements
// that are already held elsewhere (e.g. a signed region reused verbatim).
type Wire []Buffer

// Join concatenates a Wire into a single contiguous buffer.
func (w Wire) Join() []byte {
	switch len(w) {
	case 0:
		return []byte{}
	case 1:
		return w[0]
	}
	n := 0
	for _, v := range w {
		n += len(v)
	}
	b := make([]byte, n)
	pos := 0
	for _, v := range w {
		pos += copy(b[pos:], v)
	}
	return b
}

// Length returns the total byte length of all buffers in the Wire.
func (w Wire) Length() int {
	n := 0
	for _, v := range w {
		n += len(v)
	}
	return n
}

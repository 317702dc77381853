package enc

import "strings"

// TypeName is the TLV type of a Name element nested inside Interest/Data.
const TypeName TLNum = 0x07

// Name is an ordered sequence of opaque, typed components (spec §3).
type Name []Component

// ParseName parses a "/a/b/c" URI into a Name. A leading "ndn:" scheme and
// leading/trailing slashes are tolerated.
func ParseName(uri string) (Name, error) {
	uri = strings.TrimPrefix(uri, "ndn:")
	uri = strings.Trim(uri, "/")
	if uri == "" {
		return Name{}, nil
	}
	parts := strings.Split(uri, "/")
	n := make(Name, 0, len(parts))
	for _, p := range parts {
		c, err := ParseComponent(p)
		if err != nil {
			return nil, err
		}
		n = append(n, c)
	}
	return n, nil
}

// String renders the Name in NDN URI form.
func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}
	sb := strings.Builder{}
	for _, c := range n {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Clone deep-copies every component.
func (n Name) Clone() Name {
	out := make(Name, len(n))
	for i, c := range n {
		out[i] = c.Clone()
	}
	return out
}

// Append returns a new Name with components appended; the receiver is left
// untouched.
func (n Name) Append(comps ...Component) Name {
	out := make(Name, 0, len(n)+len(comps))
	out = append(out, n...)
	out = append(out, comps...)
	return out
}

// AppendName returns a new Name formed by concatenating n and rhs.
func (n Name) AppendName(rhs Name) Name {
	return n.Append(rhs...)
}

// Get returns the component at index i, supporting negative indices counted
// from the tail (-1 is the last component). ok is false if out of range.
func (n Name) Get(i int) (c Component, ok bool) {
	if i < 0 {
		i += len(n)
	}
	if i < 0 || i >= len(n) {
		return Component{}, false
	}
	return n[i], true
}

// SubName returns the slice of components [from, from+count), clamped to
// the Name's bounds. A negative count means "to the end".
func (n Name) SubName(from, count int) Name {
	if from < 0 {
		from += len(n)
	}
	if from < 0 {
		from = 0
	}
	if from > len(n) {
		return Name{}
	}
	end := len(n)
	if count >= 0 && from+count < end {
		end = from + count
	}
	return n[from:end]
}

// Equal reports exact componentwise equality.
func (n Name) Equal(rhs Name) bool {
	if len(n) != len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// Compare implements canonical NDN name ordering: shorter names are less,
// at the first differing length; component order otherwise decides.
func (n Name) Compare(rhs Name) int {
	for i := 0; i < len(n) && i < len(rhs); i++ {
		if d := n[i].Compare(rhs[i]); d != 0 {
			return d
		}
	}
	switch {
	case len(n) < len(rhs):
		return -1
	case len(n) > len(rhs):
		return 1
	default:
		return 0
	}
}

// IsPrefixOf reports whether n is a componentwise prefix of other.
func (n Name) IsPrefixOf(other Name) bool {
	if len(n) > len(other) {
		return false
	}
	for i := range n {
		if !n[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// MatchesName is the Interest-side prefix test: n (typically an Interest
// name) matches other (typically a Data name) when n is a prefix of other,
// with one exception: if n's last component is an
// ImplicitSha256DigestComponent, it must equal other's corresponding
// component exactly rather than merely prefix it.
func (n Name) MatchesName(other Name) bool {
	if len(n) == 0 {
		return true
	}
	last := n[len(n)-1]
	if last.Typ == TypeImplicitSha256DigestComponent {
		if len(other) < len(n) {
			return false
		}
		return n.Equal(other.SubName(0, len(n)))
	}
	return n.IsPrefixOf(other)
}

// EncodingLength returns the number of bytes EncodeInto will write,
// including the outer Name TLV header.
func (n Name) EncodingLength() int {
	l := 0
	for _, c := range n {
		l += c.EncodingLength()
	}
	return TypeName.EncodingLength() + Nat(l).EncodingLength() + l
}

// EncodeInto writes the Name element (TYPE=0x07, nested components) into buf.
func (n Name) EncodeInto(buf []byte) int {
	l := 0
	for _, c := range n {
		l += c.EncodingLength()
	}
	p := TypeName.EncodeInto(buf)
	p += Nat(l).EncodeInto(buf[p:])
	for _, c := range n {
		p += c.EncodeInto(buf[p:])
	}
	return p
}

// Bytes allocates and returns the TLV encoding of the Name element.
func (n Name) Bytes() []byte {
	b := make([]byte, n.EncodingLength())
	n.EncodeInto(b)
	return b
}

// ReadName decodes a Name element (including its TYPE|LENGTH header)
// starting at buf[off]. It returns the parsed Name and the offset just past
// it.
func ReadName(buf []byte, off int) (Name, int, error) {
	typ, p1, err := PeekTLNum(buf, off)
	if err != nil {
		return nil, 0, err
	}
	if typ != TypeName {
		return nil, 0, ErrMalformed{off, "expected Name element"}
	}
	length, p2, err := PeekTLNum(buf, off+p1)
	if err != nil {
		return nil, 0, err
	}
	start := off + p1 + p2
	end := start + int(length)
	if end > len(buf) {
		return nil, 0, ErrMalformed{off, "Name length exceeds remaining input"}
	}
	var n Name
	pos := start
	for pos < end {
		c, next, err := readComponent(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		n = append(n, c)
		pos = next
	}
	if pos != end {
		return nil, 0, ErrMalformed{pos, "trailing bytes inside Name"}
	}
	return n, end, nil
}

func readComponent(buf []byte, off int) (Component, int, error) {
	typ, p1, err := PeekTLNum(buf, off)
	if err != nil {
		return Component{}, 0, err
	}
	length, p2, err := PeekTLNum(buf, off+p1)
	if err != nil {
		return Component{}, 0, err
	}
	start := off + p1 + p2
	end := start + int(length)
	if end > len(buf) {
		return Component{}, 0, ErrMalformed{off, "component length exceeds remaining input"}
	}
	val := make([]byte, length)
	copy(val, buf[start:end])
	return Component{Typ: typ, Val: val}, end, nil
}

package bitstream

// Reader walks a byte slice as a stream of bits, MSB first within each byte.
// Bits are consumed strictly left to right and never re-read.
type Reader struct {
	src []byte
	pos int // bit offset of the next unread bit
}

// NewReader returns a reader positioned at the first bit of src.
func NewReader(src []byte) *Reader {
	return &Reader{src: src}
}

// Total returns the number of bits in the underlying payload.
func (r *Reader) Total() int { return len(r.src) * 8 }

// Consumed returns the number of bits already read.
func (r *Reader) Consumed() int { return r.pos }

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int { return r.Total() - r.pos }

// Next reads up to k bits and returns them as an unsigned integer together with
// the number of bits actually read. A short read happens only at the end of the
// stream; the returned value is then built from the bits that were available.
func (r *Reader) Next(k int) (v uint, n int) {
	if rem := r.Remaining(); k > rem {
		k = rem
	}
	for ; n < k; n++ {
		b := r.src[r.pos>>3]
		bit := (b >> uint(7-r.pos&7)) & 1
		v = v<<1 | uint(bit)
		r.pos++
	}
	return v, n
}

// Bits renders the whole payload as a string of '0'/'1' characters.
func Bits(src []byte) string {
	out := make([]byte, 0, len(src)*8)
	for _, b := range src {
		for i := 7; i >= 0; i-- {
			out = append(out, '0'+(b>>uint(i))&1)
		}
	}
	return string(out)
}

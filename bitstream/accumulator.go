// Package bitstream packs variable-width bit runs into bytes and reads a
// payload back as an MSB-first stream of bits.
package bitstream

// Accumulator collects bit runs of arbitrary length into a byte buffer.
// Bits are packed MSB first: the first bit pushed becomes bit 7 of the first byte.
type Accumulator struct {
	buf   []byte
	carry byte // pending bits, right aligned
	n     int  // number of pending bits in carry (0-7)
	total int
}

// NewAccumulator returns an accumulator whose buffer is pre-sized for sizeHint bytes.
func NewAccumulator(sizeHint int) *Accumulator {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Accumulator{buf: make([]byte, 0, sizeHint)}
}

// PushBits appends a string of '0'/'1' characters. Any other character counts as '1'.
func (a *Accumulator) PushBits(s string) {
	for i := 0; i < len(s); i++ {
		bit := byte(1)
		if s[i] == '0' {
			bit = 0
		}
		a.pushBit(bit)
	}
}

// PushUint appends the lowest width bits of v, most significant first.
// It is equivalent to PushBits of v formatted as a zero padded width-bit binary string.
func (a *Accumulator) PushUint(v uint, width int) {
	for i := width - 1; i >= 0; i-- {
		a.pushBit(byte(v>>uint(i)) & 1)
	}
}

func (a *Accumulator) pushBit(bit byte) {
	a.carry = a.carry<<1 | bit
	a.n++
	a.total++
	if a.n == 8 {
		a.buf = append(a.buf, a.carry)
		a.carry, a.n = 0, 0
	}
}

// Len returns the number of bits pushed so far.
func (a *Accumulator) Len() int { return a.total }

// Pending returns the number of carry bits not yet emitted as a byte.
func (a *Accumulator) Pending() int { return a.n }

// Finalize pads the carry with zero bits on the right, appends it when non-empty
// and returns the accumulated bytes. The padding is not recorded anywhere:
// callers that need the exact bit length must carry it separately.
func (a *Accumulator) Finalize() []byte {
	if a.n > 0 {
		a.buf = append(a.buf, a.carry<<uint(8-a.n))
		a.carry, a.n = 0, 0
	}
	return a.buf
}

package bitstream

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bytesToFit returns the number of bytes needed to hold the given bits.
func bytesToFit(bits int) int {
	return (bits + 7) / 8
}

// randomRuns generates bit strings of length 0..maxBits.
func randomRuns(r *rand.Rand, count, maxBits int) []string {
	runs := make([]string, count)
	for i := range runs {
		var sb strings.Builder
		n := r.Intn(maxBits + 1)
		for j := 0; j < n; j++ {
			if r.Intn(2) == 1 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		runs[i] = sb.String()
	}
	return runs
}

func TestAccumulatorEmpty(t *testing.T) {
	acc := NewAccumulator(0)
	assert.Empty(t, acc.Finalize())
	assert.Equal(t, 0, acc.Len())
}

func TestAccumulatorPadsRight(t *testing.T) {
	tests := []struct {
		name string
		runs []string
		want []byte
	}{
		{"single one", []string{"1"}, []byte{0x80}},
		{"full byte", []string{"10101010"}, []byte{0xAA}},
		{"split across runs", []string{"101", "01010"}, []byte{0xAA}},
		{"byte and carry", []string{"11111111", "0001"}, []byte{0xFF, 0x10}},
		{"long run", []string{"00000001" + "00000010" + "1"}, []byte{0x01, 0x02, 0x80}},
		{"empty runs ignored", []string{"", "1111", "", "0000"}, []byte{0xF0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acc := NewAccumulator(4)
			for _, r := range tc.runs {
				acc.PushBits(r)
			}
			assert.Equal(t, tc.want, acc.Finalize())
		})
	}
}

func TestAccumulatorCarry(t *testing.T) {
	acc := NewAccumulator(0)
	acc.PushBits("1011")
	assert.Equal(t, 4, acc.Pending())
	acc.PushBits("0110")
	assert.Equal(t, 0, acc.Pending())
	acc.PushBits("111")
	assert.Equal(t, 3, acc.Pending())
	assert.Equal(t, 11, acc.Len())
	assert.Equal(t, []byte{0xB6, 0xE0}, acc.Finalize())
}

func TestAccumulatorPushUintMatchesPushBits(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for i := 0; i < 50; i++ {
		a := NewAccumulator(0)
		b := NewAccumulator(0)
		for j := 0; j < 40; j++ {
			width := r.Intn(8)
			v := uint(0)
			if width > 0 {
				v = uint(r.Intn(1 << uint(width)))
			}
			a.PushUint(v, width)
			b.PushBits(fmt.Sprintf("%0*b", width, v)[:width])
		}
		require.Equalf(t, b.Len(), a.Len(), "case#%d: bit count mismatch", i)
		require.Equalf(t, b.Finalize(), a.Finalize(), "case#%d: bytes mismatch", i)
	}
}

// TestAccumulatorPaddingBound checks that finalize never adds more than 7 bits.
func TestAccumulatorPaddingBound(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		acc := NewAccumulator(0)
		for _, run := range randomRuns(r, 20, 17) {
			acc.PushBits(run)
		}
		pushed := acc.Len()
		out := acc.Finalize()
		assert.Equalf(t, bytesToFit(pushed), len(out), "case#%d", i)
		pad := len(out)*8 - pushed
		assert.Truef(t, pad >= 0 && pad <= 7, "case#%d: padding %d out of range", i, pad)
	}
}

func TestReaderNext(t *testing.T) {
	r := NewReader([]byte{0xB6, 0xE0})
	require.Equal(t, 16, r.Total())

	v, n := r.Next(3)
	assert.Equal(t, uint(0b101), v)
	assert.Equal(t, 3, n)

	v, n = r.Next(7)
	assert.Equal(t, uint(0b1011011), v)
	assert.Equal(t, 7, n)
	assert.Equal(t, 10, r.Consumed())

	// short read at the end of the stream
	v, n = r.Next(7)
	assert.Equal(t, uint(0b100000), v)
	assert.Equal(t, 6, n)
	assert.Equal(t, 0, r.Remaining())

	v, n = r.Next(4)
	assert.Equal(t, uint(0), v)
	assert.Equal(t, 0, n)
}

func TestReaderFeedsAccumulator(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		payload := make([]byte, 1+r.Intn(64))
		r.Read(payload)

		reader := NewReader(payload)
		acc := NewAccumulator(len(payload))
		for reader.Remaining() > 0 {
			v, n := reader.Next(1 + r.Intn(7))
			acc.PushUint(v, n)
		}
		assert.Equalf(t, payload, acc.Finalize(), "case#%d", i)
	}
}

func TestBits(t *testing.T) {
	assert.Equal(t, "", Bits(nil))
	assert.Equal(t, "0000000011111111", Bits([]byte{0x00, 0xFF}))
	assert.Equal(t, "10100101", Bits([]byte{0xA5}))
}

func BenchmarkAccumulatorPushUint(b *testing.B) {
	for width := 1; width <= 7; width++ {
		b.Run(fmt.Sprintf("%d bits", width), func(b *testing.B) {
			acc := NewAccumulator(b.N)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				acc.PushUint(uint(i), width)
			}
		})
	}
}

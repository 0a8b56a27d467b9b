package codec

import (
	"math/big"
	"testing"

	"github.com/codahale/gubbins/assert"
)

func TestInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "value", int64(0x030201), Int([]byte{0x01, 0x02, 0x03}).Int64())
	assert.Equal(t, "trailing zeros", int64(0x01), Int([]byte{0x01, 0x00, 0x00}).Int64())
	assert.Equal(t, "empty", int64(0), Int(nil).Int64())
}

func TestBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "padded", []byte{0x01, 0x02, 0x03, 0x00}, Bytes(big.NewInt(0x030201), 4))
	assert.Equal(t, "zero", []byte{0x00, 0x00}, Bytes(new(big.Int), 2))
}

func TestBytes_Negative(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("should have panicked")
		}
	}()

	Bytes(big.NewInt(-1), 4)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	want := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}

	assert.Equal(t, "round trip", want, Bytes(Int(want), len(want)))
}

func TestReverse(t *testing.T) {
	t.Parallel()

	in := []byte{1, 2, 3}

	assert.Equal(t, "reversed", []byte{3, 2, 1}, Reverse(in))
	assert.Equal(t, "input unchanged", []byte{1, 2, 3}, in)
}

func TestConcat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "concat", []byte{1, 2, 3, 4}, Concat([]byte{1}, nil, []byte{2, 3}, []byte{4}))
}

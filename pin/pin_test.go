package pin

import (
	"sort"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/codahale/wowsrp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRemapGrid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		seed uint32
		want [gridSize]byte
	}{
		{"zero", 0, [gridSize]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"one", 1, [gridSize]byte{1, 0, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"last permutation", 3628799, [gridSize]byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}},
		{"large", 0xDEADBEEF, [gridSize]byte{9, 2, 6, 5, 4, 3, 0, 1, 8, 7}},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, "grid", tc.want, RemapGrid(tc.seed))
		})
	}
}

func TestRemapGrid_Permutation(t *testing.T) {
	t.Parallel()

	for seed := uint32(0); seed < 5000; seed += 7 {
		grid := RemapGrid(seed * 7919)
		digits := grid[:]

		sort.Slice(digits, func(i, j int) bool { return digits[i] < digits[j] })

		assert.Equal(t, "permutation", []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, digits)
	}
}

func TestRandomizedGrid(t *testing.T) {
	t.Parallel()

	grid := [gridSize]byte{9, 2, 6, 5, 4, 3, 0, 1, 8, 7}

	assert.Equal(t, "positions", []byte{6, 7, 1, 0, 9}, RandomizedGrid([]byte{0, 1, 2, 9, 7}, grid))
}

func TestCalculateHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pin        []byte
		seed       uint32
		serverSalt Salt
		clientSalt Salt
		want       wowsrp.Digest
	}{
		{
			name:       "identity grid",
			pin:        []byte{1, 2, 3, 4},
			seed:       0,
			clientSalt: Salt{121, 62, 76, 125, 207, 0, 130, 51, 128, 244, 161, 24, 110, 245, 114, 57},
			want: wowsrp.Digest{
				13, 132, 14, 117, 154, 168, 208, 143, 51, 176, 230, 6, 61, 161, 46, 249, 51, 210, 44, 204,
			},
		},
		{
			name:       "remapped grid",
			pin:        []byte{1, 2, 3, 4},
			seed:       1,
			serverSalt: Salt{60, 173, 61, 234, 37, 169, 6, 63, 59, 213, 23, 47, 63, 221, 103, 43},
			clientSalt: Salt{3, 40, 23, 66, 122, 100, 117, 88, 223, 183, 228, 64, 77, 34, 48, 200},
			want: wowsrp.Digest{
				136, 112, 171, 81, 112, 16, 230, 239, 233, 104, 224, 107, 29, 5, 59, 117, 227, 167, 18, 188,
			},
		},
		{
			name:       "ten digits",
			pin:        []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 9},
			seed:       0xDEADBEEF,
			serverSalt: Salt{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			clientSalt: Salt{16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31},
			want: wowsrp.Digest{
				220, 198, 198, 241, 204, 201, 253, 149, 96, 46, 6, 246, 72, 216, 246, 197, 174, 23, 195, 201,
			},
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := CalculateHash(tc.pin, tc.seed, tc.serverSalt, tc.clientSalt)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, "hash", tc.want, got)
		})
	}
}

func TestCalculateHash_InvalidLength(t *testing.T) {
	t.Parallel()

	_, err := CalculateHash([]byte{1, 2, 3}, 0, Salt{}, Salt{})
	assert.Equal(t, "short", ErrInvalidPin, err, cmpopts.EquateErrors())

	_, err = CalculateHash(make([]byte, 11), 0, Salt{}, Salt{})
	assert.Equal(t, "long", ErrInvalidPin, err, cmpopts.EquateErrors())
}

func TestCodeFromDigits_Invalid(t *testing.T) {
	t.Parallel()

	_, err := CodeFromDigits([]byte{1, 2, 3, 10})

	assert.Equal(t, "error", ErrInvalidPin, err, cmpopts.EquateErrors())
}

func TestCodeFromUint64(t *testing.T) {
	t.Parallel()

	c, err := CodeFromUint64(1234)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "digits", []byte{1, 2, 3, 4}, c.Digits())

	_, err = CodeFromUint64(123)
	assert.Equal(t, "short", ErrInvalidPin, err, cmpopts.EquateErrors())

	_, err = CodeFromUint64(12345678901)
	assert.Equal(t, "long", ErrInvalidPin, err, cmpopts.EquateErrors())
}

func TestRandomCode(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		c := RandomCode()

		if n := len(c.Digits()); n < MinimumLength || n > MaximumLength {
			t.Fatalf("bad length: %d", n)
		}
	}

	_, err := RandomCodeOfLength(MaximumLength + 1)
	assert.Equal(t, "error", ErrInvalidPin, err, cmpopts.EquateErrors())
}

func TestVerifyHash(t *testing.T) {
	t.Parallel()

	c := RandomCode()
	seed := GridSeed()
	serverSalt, clientSalt := NewSalt(), NewSalt()

	proof := c.Hash(seed, serverSalt, clientSalt)

	assert.Equal(t, "verified", true, VerifyHash(c, seed, serverSalt, clientSalt, proof))
	assert.Equal(t, "wrong salt", false, VerifyHash(c, seed, clientSalt, serverSalt, proof))
}

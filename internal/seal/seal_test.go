package seal

import (
	"bytes"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/google/go-cmp/cmp/cmpopts"
)

//nolint:gochecknoglobals // test setup
var testCost = cost{space: 16, time: 2}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	passphrase := []byte("this is a secure thing")
	salt := bytes.Repeat([]byte{0x23}, SaltSize)
	message := []byte("this is a real matrix card")

	sealed := seal(testCost, passphrase, salt, message)

	assert.Equal(t, "length", len(message)+Overhead, len(sealed))

	plaintext, err := open(testCost, passphrase, sealed)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "plaintext", message, plaintext)
}

func TestBadPassphrase(t *testing.T) {
	t.Parallel()

	salt := bytes.Repeat([]byte{0x23}, SaltSize)
	sealed := seal(testCost, []byte("this is a secure thing"), salt, []byte("message"))

	_, err := open(testCost, []byte("boop"), sealed)

	assert.Equal(t, "error", ErrInvalidCiphertext, err, cmpopts.EquateErrors())
}

func TestBadCost(t *testing.T) {
	t.Parallel()

	passphrase := []byte("this is a secure thing")
	salt := bytes.Repeat([]byte{0x23}, SaltSize)
	sealed := seal(testCost, passphrase, salt, []byte("message"))

	_, err := open(cost{space: 32, time: 2}, passphrase, sealed)

	assert.Equal(t, "error", ErrInvalidCiphertext, err, cmpopts.EquateErrors())
}

func TestBadCiphertext(t *testing.T) {
	t.Parallel()

	passphrase := []byte("this is a secure thing")
	salt := bytes.Repeat([]byte{0x23}, SaltSize)
	sealed := seal(testCost, passphrase, salt, []byte("message"))

	for i := range sealed {
		bad := append([]byte(nil), sealed...)
		bad[i] ^= 1

		if _, err := open(testCost, passphrase, bad); err == nil {
			t.Fatalf("flipped bit in byte %d was not detected", i)
		}
	}
}

func TestShortCiphertext(t *testing.T) {
	t.Parallel()

	_, err := Open([]byte("passphrase"), make([]byte, Overhead-1))

	assert.Equal(t, "error", ErrInvalidCiphertext, err, cmpopts.EquateErrors())
}

func TestSeal_RandomSalt(t *testing.T) {
	t.Parallel()

	a := Seal([]byte("passphrase"), []byte("message"))
	b := Seal([]byte("passphrase"), []byte("message"))

	if bytes.Equal(a, b) {
		t.Error("sealing the same message twice should produce different output")
	}

	plaintext, err := Open([]byte("passphrase"), a)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "plaintext", []byte("message"), plaintext)
}

func BenchmarkSeal(b *testing.B) {
	passphrase := []byte("passphrase")
	message := make([]byte, 3*26*26)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Seal(passphrase, message)
	}
}

// Package pin implements PIN authentication, a second factor in which the client shows a
// scrambled keypad and sends a salted hash of the PIN.
//
// The server sends a random grid seed and salt. The seed decides the order of the keypad's
// digits, and the client hashes each PIN digit's position on the scrambled keypad rather than the
// digit itself.
package pin

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/codahale/wowsrp"
)

const (
	MinimumLength = 4  // MinimumLength is the fewest digits a PIN can have.
	MaximumLength = 10 // MaximumLength is the most digits a PIN can have.
	SaltLength    = 16 // SaltLength is the length of the server and client salts.
	gridSize      = 10
)

// ErrInvalidPin is returned when a PIN is too short, too long, or contains something other than
// the digits 0 through 9.
var ErrInvalidPin = errors.New("invalid pin")

// Salt is a random value mixed into the PIN hash.
type Salt [SaltLength]byte

// Code is a PIN of between 4 and 10 digits.
type Code struct {
	digits []byte
}

// RandomCode returns a random PIN of random length.
func RandomCode() Code {
	c, err := RandomCodeOfLength(MinimumLength + randomInt(MaximumLength-MinimumLength+1))
	if err != nil {
		panic(err)
	}

	return c
}

// RandomCodeOfLength returns a random PIN with the given number of digits.
func RandomCodeOfLength(length int) (Code, error) {
	if length < MinimumLength || length > MaximumLength {
		return Code{}, fmt.Errorf("%w: length %d", ErrInvalidPin, length)
	}

	digits := make([]byte, length)
	for i := range digits {
		digits[i] = byte(randomInt(gridSize))
	}

	return Code{digits: digits}, nil
}

// CodeFromUint64 returns the PIN with the decimal digits of n. Since leading zeros are lost,
// PINs which start with zero must use CodeFromDigits.
func CodeFromUint64(n uint64) (Code, error) {
	s := strconv.FormatUint(n, 10)

	digits := make([]byte, len(s))
	for i := range s {
		digits[i] = s[i] - '0'
	}

	return CodeFromDigits(digits)
}

// CodeFromDigits returns the PIN with the given digits, each of which must be between 0 and 9.
func CodeFromDigits(digits []byte) (Code, error) {
	if len(digits) < MinimumLength || len(digits) > MaximumLength {
		return Code{}, fmt.Errorf("%w: length %d", ErrInvalidPin, len(digits))
	}

	for _, d := range digits {
		if d >= gridSize {
			return Code{}, fmt.Errorf("%w: %d is not a digit", ErrInvalidPin, d)
		}
	}

	c := make([]byte, len(digits))
	copy(c, digits)

	return Code{digits: c}, nil
}

// Digits returns the PIN's digits.
func (c Code) Digits() []byte {
	return c.digits
}

// Hash returns the proof of the PIN for the given grid seed and salts.
func (c Code) Hash(gridSeed uint32, serverSalt, clientSalt Salt) wowsrp.Digest {
	grid := RemapGrid(gridSeed)

	// Replace each digit with the ASCII encoding of its position on the keypad.
	pin := make([]byte, len(c.digits))
	for i, d := range RandomizedGrid(c.digits, grid) {
		pin[i] = '0' + d
	}

	inner := sha1.Sum(append(serverSalt[:], pin...))

	return sha1.Sum(append(clientSalt[:], inner[:]...))
}

// CalculateHash returns the proof of the given PIN digits for the given grid seed and salts.
func CalculateHash(pin []byte, gridSeed uint32, serverSalt, clientSalt Salt) (wowsrp.Digest, error) {
	c, err := CodeFromDigits(pin)
	if err != nil {
		return wowsrp.Digest{}, err
	}

	return c.Hash(gridSeed, serverSalt, clientSalt), nil
}

// VerifyHash returns true if the client's proof matches the PIN.
func VerifyHash(c Code, gridSeed uint32, serverSalt, clientSalt Salt, clientProof wowsrp.Digest) bool {
	expected := c.Hash(gridSeed, serverSalt, clientSalt)

	return subtle.ConstantTimeCompare(expected[:], clientProof[:]) == 1
}

// RemapGrid returns the keypad order for the given seed: a permutation of the digits 0 through 9.
func RemapGrid(seed uint32) [gridSize]byte {
	remaining := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	var grid [gridSize]byte

	for i := gridSize; i > 0; i-- {
		r := seed % uint32(i)
		seed /= uint32(i)

		grid[gridSize-i] = remaining[r]
		remaining = append(remaining[:r], remaining[r+1:]...)
	}

	return grid
}

// RandomizedGrid replaces each digit of the PIN with its position in the remapped grid.
func RandomizedGrid(pin []byte, grid [gridSize]byte) []byte {
	var positions [gridSize]byte
	for i, d := range grid {
		positions[d] = byte(i)
	}

	out := make([]byte, len(pin))
	for i, d := range pin {
		out[i] = positions[d]
	}

	return out
}

// GridSeed returns a random grid seed.
func GridSeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}

	return binary.LittleEndian.Uint32(b[:])
}

// NewSalt returns a random salt.
func NewSalt() Salt {
	var s Salt
	if _, err := rand.Read(s[:]); err != nil {
		panic(err)
	}

	return s
}

func randomInt(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return int(n.Int64())
}

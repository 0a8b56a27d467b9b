// Package matrixcard implements matrix card authentication, a second factor in which the user
// holds a printed grid of numbers and is asked for the numbers at a few seeded coordinates.
//
// The server sends a random seed, from which both sides derive the same sequence of coordinates.
// The client proves the numbers it entered by hashing them with a key derived from the seed and
// the session key, and the server compares that proof against one computed from its own copy of
// the card.
package matrixcard

import (
	"crypto/rand"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	DefaultDigitCount     = 3  // DefaultDigitCount is the number of digits in each number.
	DefaultHeight         = 26 // DefaultHeight is the number of rows in a card.
	DefaultWidth          = 26 // DefaultWidth is the number of columns in a card.
	DefaultChallengeCount = 2  // DefaultChallengeCount is the number of numbers asked for.
)

var (
	// ErrInvalidParameters is returned when a card or challenge has a zero dimension, or asks for
	// more numbers than the card holds.
	ErrInvalidParameters = errors.New("invalid matrix card parameters")

	// ErrInvalidData is returned when a card's data doesn't match its dimensions or holds values
	// other than the digits 0 through 9.
	ErrInvalidData = errors.New("invalid matrix card data")
)

// Card is a matrix card: a grid of numbers, each of which is a fixed number of decimal digits.
// The data is the secret; it is stored as one byte per digit, row by row.
type Card struct {
	digitCount, height, width uint8
	data                      []byte
}

// New returns a random card with the default dimensions.
func New() *Card {
	c, err := NewWithParameters(DefaultDigitCount, DefaultHeight, DefaultWidth)
	if err != nil {
		panic(err)
	}

	return c
}

// NewWithParameters returns a random card with the given dimensions.
func NewWithParameters(digitCount, height, width uint8) (*Card, error) {
	if digitCount == 0 || height == 0 || width == 0 {
		return nil, ErrInvalidParameters
	}

	data := make([]byte, Size(digitCount, height, width))
	for i := range data {
		data[i] = randomDigit()
	}

	return &Card{digitCount: digitCount, height: height, width: width, data: data}, nil
}

// FromData returns a card with the default dimensions and the given data.
func FromData(data []byte) (*Card, error) {
	return FromDataWithParameters(DefaultDigitCount, DefaultHeight, DefaultWidth, data)
}

// FromDataWithParameters returns a card with the given dimensions and data.
func FromDataWithParameters(digitCount, height, width uint8, data []byte) (*Card, error) {
	if digitCount == 0 || height == 0 || width == 0 {
		return nil, ErrInvalidParameters
	}

	if len(data) != Size(digitCount, height, width) {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidData,
			Size(digitCount, height, width), len(data))
	}

	for _, d := range data {
		if d > 9 {
			return nil, fmt.Errorf("%w: %d is not a digit", ErrInvalidData, d)
		}
	}

	c := make([]byte, len(data))
	copy(c, data)

	return &Card{digitCount: digitCount, height: height, width: width, data: c}, nil
}

// Size returns the length of the data of a card with the given dimensions.
func Size(digitCount, height, width uint8) int {
	return int(digitCount) * int(height) * int(width)
}

// DigitCount returns the number of digits in each number.
func (c *Card) DigitCount() uint8 {
	return c.digitCount
}

// Height returns the number of rows.
func (c *Card) Height() uint8 {
	return c.height
}

// Width returns the number of columns.
func (c *Card) Width() uint8 {
	return c.width
}

// Data returns the card's digits.
func (c *Card) Data() []byte {
	return c.data
}

// NumberAt returns the digits of the number in column x of row y. It panics if the coordinates are
// outside the card.
func (c *Card) NumberAt(x, y uint8) []byte {
	if x >= c.width || y >= c.height {
		panic("matrixcard: coordinates out of range")
	}

	start := (int(y)*int(c.width) + int(x)) * int(c.digitCount)

	return c.data[start : start+int(c.digitCount)]
}

// Rows returns the card as printable text, one slice of numbers per row.
func (c *Card) Rows() [][]string {
	rows := make([][]string, c.height)

	for y := range rows {
		rows[y] = make([]string, c.width)

		for x := range rows[y] {
			var sb strings.Builder
			for _, d := range c.NumberAt(uint8(x), uint8(y)) {
				sb.WriteByte('0' + d)
			}

			rows[y][x] = sb.String()
		}
	}

	return rows
}

// MarshalBinary encodes the card as its digit count, height, and width followed by its data.
func (c *Card) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, 3+len(c.data))
	b = append(b, c.digitCount, c.height, c.width)
	b = append(b, c.data...)

	return b, nil
}

// UnmarshalBinary decodes the results of MarshalBinary.
func (c *Card) UnmarshalBinary(data []byte) error {
	if len(data) < 3 {
		return ErrInvalidData
	}

	card, err := FromDataWithParameters(data[0], data[1], data[2], data[3:])
	if err != nil {
		return err
	}

	*c = *card

	return nil
}

var (
	_ encoding.BinaryMarshaler   = &Card{}
	_ encoding.BinaryUnmarshaler = &Card{}
)

// Seed returns a random challenge seed.
func Seed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}

	return binary.LittleEndian.Uint64(b[:])
}

var ten = big.NewInt(10)

func randomDigit() byte {
	n, err := rand.Int(rand.Reader, ten)
	if err != nil {
		panic(err)
	}

	return byte(n.Int64())
}

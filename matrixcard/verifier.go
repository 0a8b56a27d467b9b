package matrixcard

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // fixed by the protocol
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"hash"

	"github.com/codahale/wowsrp"
	"github.com/codahale/wowsrp/internal/keystream"
)

// GenerateCoordinates returns the flat coordinates of the numbers asked for by the given seed.
//
// The seed is decoded as a mixed-radix number: each round picks one of the remaining cells by the
// seed modulo the number of cells left, removes it, and divides the seed by that count. No cell is
// picked twice.
func GenerateCoordinates(height, width, challengeCount uint8, seed uint64) ([]uint32, error) {
	if height == 0 || width == 0 || int(height)*int(width) < int(challengeCount) {
		return nil, ErrInvalidParameters
	}

	cells := make([]uint32, int(height)*int(width))
	for i := range cells {
		cells[i] = uint32(i)
	}

	coordinates := make([]uint32, challengeCount)
	for i := range coordinates {
		count := uint64(len(cells))
		index := seed % count

		coordinates[i] = cells[index]
		cells = append(cells[:index], cells[index+1:]...)
		seed /= count
	}

	return coordinates, nil
}

// Coordinate splits a flat coordinate into a column and a row.
func Coordinate(c uint32, width uint8) (x, y uint8) {
	return uint8(c % uint32(width)), uint8(c / uint32(width))
}

// Verifier accumulates the digits entered for a matrix card challenge and calculates their proof.
// A new Verifier is needed for every challenge.
type Verifier struct {
	width       uint8
	coordinates []uint32
	ks          *keystream.Cipher
	mac         hash.Hash
}

// NewVerifier returns a Verifier for a challenge against a card with the default dimensions and the
// default number of rounds.
func NewVerifier(seed uint64, sessionKey wowsrp.SessionKey) *Verifier {
	v, err := NewVerifierWithParameters(DefaultChallengeCount, DefaultHeight, DefaultWidth, seed, sessionKey)
	if err != nil {
		panic(err)
	}

	return v
}

// NewVerifierWithParameters returns a Verifier for a challenge with the given number of rounds
// against a card with the given dimensions.
func NewVerifierWithParameters(
	challengeCount, height, width uint8, seed uint64, sessionKey wowsrp.SessionKey,
) (*Verifier, error) {
	coordinates, err := GenerateCoordinates(height, width, challengeCount, seed)
	if err != nil {
		return nil, err
	}

	// Derive a key from the seed and session key.
	var b [8 + wowsrp.SessionKeyLength]byte

	binary.LittleEndian.PutUint64(b[:], seed)
	copy(b[8:], sessionKey[:])

	key := md5.Sum(b[:]) //nolint:gosec // fixed by the protocol

	return &Verifier{
		width:       width,
		coordinates: coordinates,
		ks:          keystream.New(key[:], 0),
		mac:         hmac.New(sha1.New, key[:]),
	}, nil
}

// ChallengeCount returns the number of rounds in the challenge.
func (v *Verifier) ChallengeCount() int {
	return len(v.coordinates)
}

// Coordinates returns the column and row of the number asked for in the given round, or false if
// there is no such round.
func (v *Verifier) Coordinates(round int) (x, y uint8, ok bool) {
	if round < 0 || round >= len(v.coordinates) {
		return 0, 0, false
	}

	x, y = Coordinate(v.coordinates[round], v.width)

	return x, y, true
}

// EnterDigit adds a single digit to the proof.
func (v *Verifier) EnterDigit(digit byte) {
	b := [1]byte{digit}

	v.ks.Apply(b[:])
	_, _ = v.mac.Write(b[:])
}

// EnterDigits adds each of the given digits to the proof in turn.
func (v *Verifier) EnterDigits(digits []byte) {
	for _, d := range digits {
		v.EnterDigit(d)
	}
}

// CalculateHash returns the proof of the digits entered so far.
func (v *Verifier) CalculateHash() wowsrp.Digest {
	var d wowsrp.Digest

	copy(d[:], v.mac.Sum(nil))

	return d
}

// VerifyHash returns true if the client's proof matches the numbers on the card at the
// coordinates generated by the seed.
func VerifyHash(
	card *Card, challengeCount uint8, seed uint64, sessionKey wowsrp.SessionKey, clientProof wowsrp.Digest,
) bool {
	expected, err := ExpectedHash(card, challengeCount, seed, sessionKey)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(expected[:], clientProof[:]) == 1
}

// ExpectedHash returns the proof a client holding the card should send for the given challenge.
func ExpectedHash(
	card *Card, challengeCount uint8, seed uint64, sessionKey wowsrp.SessionKey,
) (wowsrp.Digest, error) {
	v, err := NewVerifierWithParameters(challengeCount, card.height, card.width, seed, sessionKey)
	if err != nil {
		return wowsrp.Digest{}, err
	}

	for round := 0; round < v.ChallengeCount(); round++ {
		x, y, _ := v.Coordinates(round)
		v.EnterDigits(card.NumberAt(x, y))
	}

	return v.CalculateHash(), nil
}

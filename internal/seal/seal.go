// Package seal encrypts small secrets, like matrix cards, with a passphrase for storage at rest.
//
// Keys are derived with balloon hashing over a STROBE protocol, which is initialized as follows,
// given a passphrase P, salt S, space parameter X, time parameter Y, and block size N:
//
//     INIT('wowsrp.seal', level=256)
//     AD(LE_U32(X), meta=true)
//     AD(LE_U32(Y), meta=true)
//     AD(LE_U32(N), meta=true)
//     KEY(P)
//     AD(S)
//
// Each step of the balloon hashing algorithm, given a counter C, a left block L, and a right block
// R, is:
//
//     AD(LE_U64(C))
//     AD(L)
//     AD(R)
//     PRF(N)
//
// The final block B_n keys the protocol, after which a message M is sealed as:
//
//     KEY(B_n)
//     SEND_ENC(M)
//     SEND_MAC(16)
//
// See https://eprint.iacr.org/2016/027.pdf
package seal

import (
	"crypto/rand"
	"encoding/binary"
	"errors"

	"github.com/sammyne/strobe"
)

const (
	SaltSize = 16 // SaltSize is the length of the random salt prepended to sealed data.
	TagSize  = 16 // TagSize is the length of the authentication tag appended to sealed data.

	// Overhead is the number of bytes sealing adds to a secret.
	Overhead = SaltSize + TagSize

	blockSize = 32 // blockSize is the size of each balloon block in bytes.
	delta     = 3  // delta is the number of pseudo-random dependencies per block.
)

// cost sets the balloon hashing parameters: the number of blocks in the buffer, and the number of
// mixing passes over it.
type cost struct {
	space, time int
}

var defaultCost = cost{space: 1024, time: 8}

// ErrInvalidCiphertext is returned when sealed data cannot be opened, either due to an incorrect
// passphrase or tampering.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// Seal encrypts the plaintext with the passphrase and a random salt.
func Seal(passphrase, plaintext []byte) []byte {
	var salt [SaltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		panic(err)
	}

	return seal(defaultCost, passphrase, salt[:], plaintext)
}

func seal(c cost, passphrase, salt, plaintext []byte) []byte {
	p := initProtocol(c, passphrase, salt)

	// Copy the salt and the plaintext into the output.
	out := make([]byte, SaltSize+len(plaintext)+TagSize)
	copy(out, salt)
	ciphertext := out[SaltSize : SaltSize+len(plaintext)]
	copy(ciphertext, plaintext)

	// Encrypt the plaintext in place.
	mustENC(p.SendENC(ciphertext, &strobe.Options{}))

	// Append the tag.
	must(p.SendMAC(out[SaltSize+len(plaintext):], &strobe.Options{}))

	return out
}

// Open decrypts the results of Seal with the passphrase.
func Open(passphrase, sealed []byte) ([]byte, error) {
	return open(defaultCost, passphrase, sealed)
}

func open(c cost, passphrase, sealed []byte) ([]byte, error) {
	if len(sealed) < Overhead {
		return nil, ErrInvalidCiphertext
	}

	salt := sealed[:SaltSize]
	tag := sealed[len(sealed)-TagSize:]

	p := initProtocol(c, passphrase, salt)

	// Decrypt a copy of the ciphertext.
	plaintext := make([]byte, len(sealed)-Overhead)
	copy(plaintext, sealed[SaltSize:len(sealed)-TagSize])

	mustENC(p.RecvENC(plaintext, &strobe.Options{}))

	// Check the tag.
	if err := p.RecvMAC(copyBytes(tag), &strobe.Options{}); err != nil {
		return nil, ErrInvalidCiphertext
	}

	return plaintext, nil
}

func initProtocol(c cost, passphrase, salt []byte) *strobe.Strobe {
	space, time := c.space, c.time

	p, err := strobe.New("wowsrp.seal", strobe.Bit256)
	must(err)

	// Include the balloon parameters as associated data.
	must(p.AD(littleEndianU32(space), &strobe.Options{Meta: true}))
	must(p.AD(littleEndianU32(time), &strobe.Options{Meta: true}))
	must(p.AD(littleEndianU32(blockSize), &strobe.Options{Meta: true}))

	// Key the protocol with the passphrase and include the salt.
	must(p.KEY(copyBytes(passphrase), false))
	must(p.AD(copyBytes(salt), &strobe.Options{}))

	var (
		ctr    uint64
		ctrBuf [8]byte
		idx    [blockSize]byte
		buf    = make([]byte, space*blockSize)
	)

	block := func(i int) []byte {
		return buf[i*blockSize : (i+1)*blockSize]
	}

	step := func(dst, left, right []byte) {
		ctr++
		binary.LittleEndian.PutUint64(ctrBuf[:], ctr)

		must(p.AD(ctrBuf[:], &strobe.Options{}))
		must(p.AD(left, &strobe.Options{}))
		must(p.AD(right, &strobe.Options{}))
		must(p.PRF(dst, false))
	}

	// Fill the buffer.
	step(block(0), nil, nil)

	for m := 1; m < space; m++ {
		step(block(m), block(m-1), nil)
	}

	// Mix the buffer.
	for t := 0; t < time; t++ {
		for m := 0; m < space; m++ {
			// Hash the previous and current blocks.
			step(block(m), block((m+space-1)%space), block(m))

			// Hash pseudo-randomly chosen blocks.
			for i := 0; i < delta; i++ {
				binary.LittleEndian.PutUint32(idx[0:], uint32(t))
				binary.LittleEndian.PutUint32(idx[4:], uint32(m))
				binary.LittleEndian.PutUint32(idx[8:], uint32(i))
				step(idx[:], salt, idx[:])

				other := int(binary.LittleEndian.Uint64(idx[:]) % uint64(space))
				step(block(m), block(other), nil)
			}
		}
	}

	// Key the protocol with the final block.
	must(p.KEY(block(space-1), false))

	return p
}

func littleEndianU32(n int) []byte {
	var b [4]byte

	binary.LittleEndian.PutUint32(b[:], uint32(n))

	return b[:]
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)

	return c
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustENC(_ []byte, err error) {
	must(err)
}

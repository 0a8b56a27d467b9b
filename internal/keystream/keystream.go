// Package keystream provides RC4 keystreams with an optional number of discarded initial bytes.
package keystream

import (
	"crypto/rc4"
)

// Cipher is an RC4 keystream. It is not safe for concurrent use.
type Cipher struct {
	c *rc4.Cipher
}

// New returns an RC4 keystream for the given key which has already discarded its first drop bytes.
// It panics if the key is not between 1 and 256 bytes long.
func New(key []byte, drop int) *Cipher {
	c, err := rc4.NewCipher(key)
	if err != nil {
		panic(err)
	}

	// Discard the first bytes of the keystream.
	var buf [256]byte
	for drop > 0 {
		n := drop
		if n > len(buf) {
			n = len(buf)
		}

		c.XORKeyStream(buf[:n], buf[:n])
		drop -= n
	}

	return &Cipher{c: c}
}

// Apply XORs data in place with the next len(data) bytes of the keystream.
func (c *Cipher) Apply(data []byte) {
	c.c.XORKeyStream(data, data)
}

package header

import (
	"crypto/hmac"
	"crypto/sha1"

	"github.com/codahale/wowsrp"
	"github.com/codahale/wowsrp/internal/keystream"
)

// wrathDrop is the number of keystream bytes discarded before a wrath cipher is used.
const wrathDrop = 1024

var (
	// serverToClientKey keys headers sent by the server.
	serverToClientKey = []byte{
		0xcc, 0x98, 0xae, 0x04, 0xe8, 0x97, 0xea, 0xca,
		0x12, 0xdd, 0xc0, 0x93, 0x42, 0x91, 0x53, 0x57,
	}

	// clientToServerKey keys headers sent by the client.
	clientToServerKey = []byte{
		0xc2, 0xb3, 0x72, 0x3c, 0xc6, 0xae, 0xd9, 0xb5,
		0x34, 0x3c, 0x53, 0xee, 0x2f, 0x43, 0x67, 0xce,
	}
)

// RC4 is the wrath header cipher: RC4 keyed with HMAC-SHA1 of the session key, with the first
// 1024 bytes of keystream discarded. Encryption and decryption are the same operation.
type RC4 struct {
	ks *keystream.Cipher
}

func newRC4(directionKey []byte, sessionKey wowsrp.SessionKey) *RC4 {
	h := hmac.New(sha1.New, directionKey)
	_, _ = h.Write(sessionKey[:])

	return &RC4{ks: keystream.New(h.Sum(nil), wrathDrop)}
}

// Encrypt encrypts data in place.
func (c *RC4) Encrypt(data []byte) {
	c.ks.Apply(data)
}

// Decrypt decrypts data in place.
func (c *RC4) Decrypt(data []byte) {
	c.ks.Apply(data)
}

var (
	_ Encrypter = &RC4{}
	_ Decrypter = &RC4{}
)

// NewWrathServerEncrypter returns the cipher a server uses for the headers it sends.
func NewWrathServerEncrypter(sessionKey wowsrp.SessionKey) *RC4 {
	return newRC4(serverToClientKey, sessionKey)
}

// NewWrathServerDecrypter returns the cipher a server uses for the headers it receives.
func NewWrathServerDecrypter(sessionKey wowsrp.SessionKey) *RC4 {
	return newRC4(clientToServerKey, sessionKey)
}

// NewWrathClientEncrypter returns the cipher a client uses for the headers it sends.
func NewWrathClientEncrypter(sessionKey wowsrp.SessionKey) *RC4 {
	return newRC4(clientToServerKey, sessionKey)
}

// NewWrathClientDecrypter returns the cipher a client uses for the headers it receives.
func NewWrathClientDecrypter(sessionKey wowsrp.SessionKey) *RC4 {
	return newRC4(serverToClientKey, sessionKey)
}

// NewWrathServerCrypto returns the header ciphers for the server side of a wrath connection.
func NewWrathServerCrypto(sessionKey wowsrp.SessionKey) *Crypto {
	return &Crypto{
		Encrypter: NewWrathServerEncrypter(sessionKey),
		Decrypter: NewWrathServerDecrypter(sessionKey),
	}
}

// NewWrathClientCrypto returns the header ciphers for the client side of a wrath connection.
func NewWrathClientCrypto(sessionKey wowsrp.SessionKey) *Crypto {
	return &Crypto{
		Encrypter: NewWrathClientEncrypter(sessionKey),
		Decrypter: NewWrathClientDecrypter(sessionKey),
	}
}

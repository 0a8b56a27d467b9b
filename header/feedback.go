package header

import (
	"crypto/hmac"
	"crypto/sha1"

	"github.com/codahale/wowsrp"
)

// tbcKeySeed is the HMAC key used to derive TBC header keys from session keys.
var tbcKeySeed = []byte{
	0x38, 0xa7, 0x83, 0x15, 0xf8, 0x92, 0x25, 0x30,
	0x71, 0x98, 0x67, 0xb1, 0x8c, 0x04, 0xe2, 0xaa,
}

// feedback is the running state of the vanilla and TBC header cipher: a position in a repeating
// key, and the previous ciphertext byte.
type feedback struct {
	key   []byte
	index int
	last  byte
}

func (f *feedback) next() byte {
	k := f.key[f.index]
	f.index = (f.index + 1) % len(f.key)

	return k
}

// FeedbackEncrypter encrypts headers for vanilla and TBC connections.
type FeedbackEncrypter struct {
	feedback
}

// Encrypt encrypts data in place.
func (e *FeedbackEncrypter) Encrypt(data []byte) {
	for i, p := range data {
		c := (p ^ e.next()) + e.last
		e.last = c
		data[i] = c
	}
}

// FeedbackDecrypter decrypts headers for vanilla and TBC connections.
type FeedbackDecrypter struct {
	feedback
}

// Decrypt decrypts data in place.
func (d *FeedbackDecrypter) Decrypt(data []byte) {
	for i, c := range data {
		data[i] = (c - d.last) ^ d.next()
		d.last = c
	}
}

var (
	_ Encrypter = &FeedbackEncrypter{}
	_ Decrypter = &FeedbackDecrypter{}
)

// NewVanillaEncrypter returns an encrypter keyed directly with the session key.
func NewVanillaEncrypter(sessionKey wowsrp.SessionKey) *FeedbackEncrypter {
	return &FeedbackEncrypter{feedback{key: sessionKey[:]}}
}

// NewVanillaDecrypter returns a decrypter keyed directly with the session key.
func NewVanillaDecrypter(sessionKey wowsrp.SessionKey) *FeedbackDecrypter {
	return &FeedbackDecrypter{feedback{key: sessionKey[:]}}
}

// NewVanillaCrypto returns the header ciphers for a vanilla connection. Both sides of the
// connection use the same construction.
func NewVanillaCrypto(sessionKey wowsrp.SessionKey) *Crypto {
	return &Crypto{Encrypter: NewVanillaEncrypter(sessionKey), Decrypter: NewVanillaDecrypter(sessionKey)}
}

// NewTBCEncrypter returns an encrypter keyed with HMAC-SHA1 of the session key.
func NewTBCEncrypter(sessionKey wowsrp.SessionKey) *FeedbackEncrypter {
	return &FeedbackEncrypter{feedback{key: tbcKey(sessionKey)}}
}

// NewTBCDecrypter returns a decrypter keyed with HMAC-SHA1 of the session key.
func NewTBCDecrypter(sessionKey wowsrp.SessionKey) *FeedbackDecrypter {
	return &FeedbackDecrypter{feedback{key: tbcKey(sessionKey)}}
}

// NewTBCCrypto returns the header ciphers for a TBC connection. Both sides of the connection use
// the same construction.
func NewTBCCrypto(sessionKey wowsrp.SessionKey) *Crypto {
	return &Crypto{Encrypter: NewTBCEncrypter(sessionKey), Decrypter: NewTBCDecrypter(sessionKey)}
}

func tbcKey(sessionKey wowsrp.SessionKey) []byte {
	h := hmac.New(sha1.New, tbcKeySeed)
	_, _ = h.Write(sessionKey[:])

	return h.Sum(nil)
}

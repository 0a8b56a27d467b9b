// Package wowsrp implements the SRP6 variant used by World of Warcraft login servers and clients.
//
// A server starts from a Verifier, either computed from a username and password or loaded from
// storage, and turns it into a Proof, which carries the server's public key and salt to send to
// the client. The client answers with its own public key and proof, which the Proof turns into a
// Server holding the session key.
//
// A client starts from a ClientChallenge, built from the username, password, and the server's
// public key and salt. Once the server's proof has been verified, it becomes a Client holding the
// same session key.
//
// Both sides can then use the session key to key the header ciphers in the header package, and
// to prove possession of it when reconnecting.
//
// Authentication failures are reported as a false boolean, never as an error: errors are reserved
// for malformed input.
package wowsrp

import (
	"crypto/rand"
	"errors"

	"github.com/codahale/wowsrp/internal/srp"
)

const (
	// Generator is the group generator g.
	Generator = srp.Generator

	// KeyLength is the length of keys, password verifiers, and salts.
	KeyLength = srp.KeySize

	// SessionKeyLength is the length of the session key.
	SessionKeyLength = srp.SessionKeySize

	// ProofLength is the length of proofs.
	ProofLength = srp.ProofSize

	// ReconnectDataLength is the length of the random data exchanged when reconnecting.
	ReconnectDataLength = srp.ReconnectSize
)

// LargeSafePrimeLittleEndian is the group modulus N in little-endian order.
var LargeSafePrimeLittleEndian = Key(srp.LargeSafePrime)

type (
	// Key is a 32-byte little-endian integer: a public or private key, a password verifier, or a
	// salt.
	Key [KeyLength]byte

	// Digest is a 20-byte SHA-1 output, used for client, server, and reconnection proofs.
	Digest [ProofLength]byte

	// SessionKey is the 40-byte secret shared by client and server after authentication.
	SessionKey [SessionKeyLength]byte

	// ReconnectData is random challenge data exchanged when a client reconnects.
	ReconnectData [ReconnectDataLength]byte
)

var (
	// ErrInvalidName is returned when a username or password is empty, too long, or contains
	// characters which are not printable ASCII.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidPublicKey is returned when a public key is congruent to zero modulo N.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidVerifier is returned when a stored verifier cannot be decoded.
	ErrInvalidVerifier = errors.New("invalid verifier")

	// ErrUnsupportedGroup is returned when a server offers a generator or modulus other than
	// Generator and LargeSafePrimeLittleEndian.
	ErrUnsupportedGroup = errors.New("unsupported group parameters")
)

// ValidatePublicKey returns ErrInvalidPublicKey if the given public key must be rejected.
func ValidatePublicKey(publicKey Key) error {
	if !srp.ValidPublicKey(publicKey) {
		return ErrInvalidPublicKey
	}

	return nil
}

func randomKey() Key {
	var k Key
	mustRead(k[:])

	return k
}

func randomReconnectData() ReconnectData {
	var d ReconnectData
	mustRead(d[:])

	return d
}

func mustRead(b []byte) {
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
}

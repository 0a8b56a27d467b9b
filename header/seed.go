package header

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"

	"github.com/codahale/wowsrp"
	"github.com/codahale/wowsrp/internal/srp"
)

// Generation selects which header cipher a connection uses.
type Generation int

const (
	Vanilla Generation = iota // Vanilla uses the session key as a feedback cipher key.
	TBC                       // TBC uses an HMAC of the session key as a feedback cipher key.
	Wrath                     // Wrath uses RC4.
)

// ProofSeed is one side's random seed for the world-server handshake, in which the client proves
// that it holds the session key it negotiated with the login server.
type ProofSeed struct {
	seed uint32
}

// NewProofSeed returns a random ProofSeed.
func NewProofSeed() ProofSeed {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}

	return ProofSeed{seed: binary.LittleEndian.Uint32(b[:])}
}

// Seed returns the seed value to send to the other side.
func (p ProofSeed) Seed() uint32 {
	return p.seed
}

// ClientCrypto uses the receiver as the client's seed and returns the proof to send to the server,
// along with the client's header ciphers.
func (p ProofSeed) ClientCrypto(
	gen Generation, username wowsrp.NormalizedString, sessionKey wowsrp.SessionKey, serverSeed uint32,
) (wowsrp.Digest, *Crypto) {
	proof := srp.WorldProof(username.String(), p.seed, serverSeed, sessionKey)

	return proof, newCrypto(gen, sessionKey, false)
}

// ServerCrypto uses the receiver as the server's seed and checks the client's proof. If the client
// holds the session key, it returns the server's header ciphers. Otherwise, it returns false.
func (p ProofSeed) ServerCrypto(
	gen Generation, username wowsrp.NormalizedString, sessionKey wowsrp.SessionKey,
	clientProof wowsrp.Digest, clientSeed uint32,
) (*Crypto, bool) {
	expected := srp.WorldProof(username.String(), clientSeed, p.seed, sessionKey)
	if subtle.ConstantTimeCompare(expected[:], clientProof[:]) != 1 {
		return nil, false
	}

	return newCrypto(gen, sessionKey, true), true
}

func newCrypto(gen Generation, sessionKey wowsrp.SessionKey, server bool) *Crypto {
	switch gen {
	case Vanilla:
		return NewVanillaCrypto(sessionKey)
	case TBC:
		return NewTBCCrypto(sessionKey)
	case Wrath:
		if server {
			return NewWrathServerCrypto(sessionKey)
		}

		return NewWrathClientCrypto(sessionKey)
	default:
		panic("header: unknown generation")
	}
}

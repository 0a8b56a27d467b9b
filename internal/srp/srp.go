// Package srp implements the SRP6 arithmetic used by the login handshake.
//
// All keys are 32-byte little-endian integers, and all hashes are SHA-1. The group parameters are
// fixed:
//
//     N = 0x894B645E89E1535BBDAD5B8B290650530801B18EBFBF5E8FAB3C82872A3E9BB7
//     g = 7
//     k = 3
//
// The functions in this package do no validation beyond what their array types enforce. Public
// keys received from a peer must be checked with ValidPublicKey first.
package srp

import (
	"crypto/sha1"
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/codahale/wowsrp/internal/codec"
)

const (
	KeySize        = 32 // KeySize is the length of keys, verifiers, and salts.
	ProofSize      = sha1.Size
	SessionKeySize = 2 * sha1.Size
	ReconnectSize  = 16 // ReconnectSize is the length of reconnection challenge data.

	Generator = 7
	k         = 3
)

// LargeSafePrime is N in little-endian order.
var LargeSafePrime = [KeySize]byte{
	0xb7, 0x9b, 0x3e, 0x2a, 0x87, 0x82, 0x3c, 0xab,
	0x8f, 0x5e, 0xbf, 0xbf, 0x8e, 0xb1, 0x01, 0x08,
	0x53, 0x50, 0x06, 0x29, 0x8b, 0x5b, 0xad, 0xbd,
	0x5b, 0x53, 0xe1, 0x89, 0x5e, 0x64, 0x4b, 0x89,
}

// XorHash is SHA1(g) XOR SHA1(N).
var XorHash = [ProofSize]byte{
	0xdd, 0x7b, 0xb0, 0x3a, 0x38, 0xac, 0x73, 0x11, 0x03, 0x98,
	0x7c, 0x5a, 0x50, 0x6f, 0xca, 0x96, 0x6c, 0x7b, 0xc2, 0xa7,
}

var (
	n = codec.Int(LargeSafePrime[:])
	g = big.NewInt(Generator)
)

// X returns SHA1(salt || SHA1(USERNAME || ":" || PASSWORD)).
func X(username, password string, salt [KeySize]byte) [ProofSize]byte {
	inner := sha1.Sum([]byte(strings.ToUpper(username) + ":" + strings.ToUpper(password)))

	return hash(salt[:], inner[:])
}

// PasswordVerifier returns g^x mod N.
func PasswordVerifier(username, password string, salt [KeySize]byte) [KeySize]byte {
	x := X(username, password, salt)

	return key(new(big.Int).Exp(g, codec.Int(x[:]), n))
}

// ServerPublicKey returns (k*v + g^b mod N) mod N.
func ServerPublicKey(verifier, serverPrivateKey [KeySize]byte) [KeySize]byte {
	kv := new(big.Int).Mul(big.NewInt(k), codec.Int(verifier[:]))
	gb := new(big.Int).Exp(g, codec.Int(serverPrivateKey[:]), n)

	return key(kv.Add(kv, gb).Mod(kv, n))
}

// ClientPublicKey returns g^a mod N.
func ClientPublicKey(clientPrivateKey [KeySize]byte) [KeySize]byte {
	return key(new(big.Int).Exp(g, codec.Int(clientPrivateKey[:]), n))
}

// ValidPublicKey returns false if the given public key is congruent to zero modulo N. Any such
// key forces the shared secret to zero regardless of the password.
func ValidPublicKey(publicKey [KeySize]byte) bool {
	return new(big.Int).Mod(codec.Int(publicKey[:]), n).Sign() != 0
}

// U returns SHA1(A || B).
func U(clientPublicKey, serverPublicKey [KeySize]byte) [ProofSize]byte {
	return hash(clientPublicKey[:], serverPublicKey[:])
}

// ServerS returns the server's shared secret, (A * v^u mod N)^b mod N.
func ServerS(clientPublicKey, verifier [KeySize]byte, u [ProofSize]byte, serverPrivateKey [KeySize]byte) [KeySize]byte {
	s := new(big.Int).Exp(codec.Int(verifier[:]), codec.Int(u[:]), n)
	s.Mul(s, codec.Int(clientPublicKey[:])).Mod(s, n)

	return key(s.Exp(s, codec.Int(serverPrivateKey[:]), n))
}

// ClientS returns the client's shared secret, (B - k*g^x mod N)^(a + u*x) mod N.
func ClientS(
	serverPublicKey, clientPrivateKey [KeySize]byte, x, u [ProofSize]byte,
) [KeySize]byte {
	xi := codec.Int(x[:])

	// Calculate the base, adding N back in if the subtraction goes negative.
	kgx := new(big.Int).Exp(g, xi, n)
	kgx.Mul(kgx, big.NewInt(k)).Mod(kgx, n)

	base := new(big.Int).Sub(codec.Int(serverPublicKey[:]), kgx)
	if base.Sign() < 0 {
		base.Add(base, n)
	}

	// Calculate the exponent.
	exp := new(big.Int).Mul(codec.Int(u[:]), xi)
	exp.Add(exp, codec.Int(clientPrivateKey[:]))

	return key(base.Exp(base, exp, n))
}

// Interleave derives the 40-byte session key from the shared secret S.
func Interleave(s [KeySize]byte) [SessionKeySize]byte {
	split := splitS(s)

	// Separate the even and odd bytes.
	even := make([]byte, 0, len(split)/2+1)
	odd := make([]byte, 0, len(split)/2)

	for i, b := range split {
		if i%2 == 0 {
			even = append(even, b)
		} else {
			odd = append(odd, b)
		}
	}

	// Hash each half and weave the digests together.
	e, o := sha1.Sum(even), sha1.Sum(odd)

	var sessionKey [SessionKeySize]byte
	for i := range e {
		sessionKey[i*2] = e[i]
		sessionKey[i*2+1] = o[i]
	}

	return sessionKey
}

// splitS strips leading zero bytes from S two at a time, keeping the remainder's length even.
func splitS(s [KeySize]byte) []byte {
	offset := 0
	for offset < len(s) && s[offset] == 0 {
		offset += 2
	}

	return s[offset:]
}

// ClientProof returns M1, SHA1(XorHash || SHA1(USERNAME) || salt || A || B || K).
func ClientProof(
	username string, sessionKey [SessionKeySize]byte, clientPublicKey, serverPublicKey, salt [KeySize]byte,
) [ProofSize]byte {
	user := sha1.Sum([]byte(strings.ToUpper(username)))

	return hash(XorHash[:], user[:], salt[:], clientPublicKey[:], serverPublicKey[:], sessionKey[:])
}

// ServerProof returns M2, SHA1(A || M1 || K).
func ServerProof(
	clientPublicKey [KeySize]byte, clientProof [ProofSize]byte, sessionKey [SessionKeySize]byte,
) [ProofSize]byte {
	return hash(clientPublicKey[:], clientProof[:], sessionKey[:])
}

// ReconnectProof returns SHA1(USERNAME || clientData || serverData || K).
func ReconnectProof(
	username string, clientData, serverData [ReconnectSize]byte, sessionKey [SessionKeySize]byte,
) [ProofSize]byte {
	return hash([]byte(strings.ToUpper(username)), clientData[:], serverData[:], sessionKey[:])
}

// WorldProof returns the proof a client sends when joining a world server,
// SHA1(USERNAME || 0 || clientSeed || serverSeed || K), with both seeds as little-endian 32-bit
// integers.
func WorldProof(username string, clientSeed, serverSeed uint32, sessionKey [SessionKeySize]byte) [ProofSize]byte {
	var seeds [12]byte

	binary.LittleEndian.PutUint32(seeds[4:], clientSeed)
	binary.LittleEndian.PutUint32(seeds[8:], serverSeed)

	return hash([]byte(strings.ToUpper(username)), seeds[:], sessionKey[:])
}

func hash(parts ...[]byte) [ProofSize]byte {
	return sha1.Sum(codec.Concat(parts...))
}

func key(i *big.Int) [KeySize]byte {
	var out [KeySize]byte

	copy(out[:], codec.Bytes(i, KeySize))

	return out
}

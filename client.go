package wowsrp

import (
	"crypto/subtle"

	"github.com/codahale/wowsrp/internal/srp"
)

// ClientChallenge is the client's side of an authentication attempt in progress. Its public key
// and proof are sent to the server, and it is consumed by VerifyServerProof.
type ClientChallenge struct {
	username        NormalizedString
	clientPublicKey Key
	clientProof     Digest
	sessionKey      SessionKey
}

// NewClientChallenge generates a random client private key and calculates the client's public key,
// proof, and session key from the values sent by the server.
//
// The generator and large safe prime are the values sent by the server; anything other than
// Generator and LargeSafePrimeLittleEndian returns ErrUnsupportedGroup. A server public key which
// is congruent to zero modulo N returns ErrInvalidPublicKey.
func NewClientChallenge(
	username, password NormalizedString, generator byte, largeSafePrime, serverPublicKey, salt Key,
) (*ClientChallenge, error) {
	if generator != Generator || largeSafePrime != LargeSafePrimeLittleEndian {
		return nil, ErrUnsupportedGroup
	}

	return newClientChallenge(username, password, serverPublicKey, salt, randomKey())
}

func newClientChallenge(
	username, password NormalizedString, serverPublicKey, salt, clientPrivateKey Key,
) (*ClientChallenge, error) {
	if err := ValidatePublicKey(serverPublicKey); err != nil {
		return nil, err
	}

	clientPublicKey := srp.ClientPublicKey(clientPrivateKey)

	// Calculate the shared secret and the session key.
	x := srp.X(username.String(), password.String(), salt)
	u := srp.U(clientPublicKey, serverPublicKey)
	sessionKey := srp.Interleave(srp.ClientS(serverPublicKey, clientPrivateKey, x, u))

	return &ClientChallenge{
		username:        username,
		clientPublicKey: clientPublicKey,
		clientProof:     srp.ClientProof(username.String(), sessionKey, clientPublicKey, serverPublicKey, salt),
		sessionKey:      sessionKey,
	}, nil
}

// ClientPublicKey returns the client's public key, A.
func (c *ClientChallenge) ClientPublicKey() Key {
	return c.clientPublicKey
}

// ClientProof returns the client's proof, M1.
func (c *ClientChallenge) ClientProof() Digest {
	return c.clientProof
}

// VerifyServerProof returns an authenticated Client if the server's proof shows it knows the
// user's password verifier. Otherwise, it returns false.
func (c *ClientChallenge) VerifyServerProof(serverProof Digest) (*Client, bool) {
	expected := srp.ServerProof(c.clientPublicKey, c.clientProof, c.sessionKey)
	if subtle.ConstantTimeCompare(expected[:], serverProof[:]) != 1 {
		return nil, false
	}

	return &Client{username: c.username, sessionKey: c.sessionKey}, true
}

// Client is an authenticated session with a server.
type Client struct {
	username   NormalizedString
	sessionKey SessionKey
}

// Username returns the authenticated username.
func (c *Client) Username() NormalizedString {
	return c.username
}

// SessionKey returns the session key shared with the server.
func (c *Client) SessionKey() SessionKey {
	return c.sessionKey
}

// CalculateReconnectValues generates random client challenge data and returns it along with the
// proof for the server's challenge data.
func (c *Client) CalculateReconnectValues(serverData ReconnectData) (ReconnectData, Digest) {
	clientData := randomReconnectData()

	return clientData, c.reconnectProof(clientData, serverData)
}

func (c *Client) reconnectProof(clientData, serverData ReconnectData) Digest {
	return srp.ReconnectProof(c.username.String(), clientData, serverData, c.sessionKey)
}

package wowsrp

import (
	"crypto/subtle"

	"github.com/codahale/wowsrp/internal/srp"
)

// Proof is the server's side of an authentication attempt in progress. Its public key and salt
// are sent to the client, and it is consumed by the first call to IntoServer.
type Proof struct {
	username         NormalizedString
	salt             Key
	passwordVerifier Key
	serverPublicKey  Key
	serverPrivateKey Key
	used             bool
}

// ServerPublicKey returns the server's public key, B.
func (p *Proof) ServerPublicKey() Key {
	return p.serverPublicKey
}

// Salt returns the user's salt.
func (p *Proof) Salt() Key {
	return p.salt
}

// IntoServer checks the client's public key and proof. If the client knows the password, it
// returns the authenticated Server and the server proof to send back to the client. Otherwise, it
// returns false.
//
// A Proof can only be used once. The server's private key is erased by the first call, and all
// subsequent calls return false.
func (p *Proof) IntoServer(clientPublicKey Key, clientProof Digest) (*Server, Digest, bool) {
	if p.used || !srp.ValidPublicKey(clientPublicKey) {
		return nil, Digest{}, false
	}

	// Consume the proof.
	b := p.serverPrivateKey
	p.used = true
	p.serverPrivateKey = Key{}

	// Calculate the shared secret and the session key.
	u := srp.U(clientPublicKey, p.serverPublicKey)
	s := srp.ServerS(clientPublicKey, p.passwordVerifier, u, b)
	sessionKey := srp.Interleave(s)

	// Calculate what the client's proof should have been and compare it to the one provided.
	expected := Digest(srp.ClientProof(p.username.String(), sessionKey, clientPublicKey, p.serverPublicKey, p.salt))
	if subtle.ConstantTimeCompare(expected[:], clientProof[:]) != 1 {
		return nil, Digest{}, false
	}

	server := &Server{
		username:      p.username,
		sessionKey:    sessionKey,
		reconnectData: randomReconnectData(),
	}

	return server, srp.ServerProof(clientPublicKey, clientProof, sessionKey), true
}

// Server is an authenticated client's session on the server.
type Server struct {
	username      NormalizedString
	sessionKey    SessionKey
	reconnectData ReconnectData
}

// Username returns the authenticated username.
func (s *Server) Username() NormalizedString {
	return s.username
}

// SessionKey returns the session key shared with the client.
func (s *Server) SessionKey() SessionKey {
	return s.sessionKey
}

// ReconnectChallengeData returns the challenge data to send to a client which is reconnecting.
// It changes after every call to VerifyReconnectionAttempt.
func (s *Server) ReconnectChallengeData() ReconnectData {
	return s.reconnectData
}

// VerifyReconnectionAttempt returns true if the client's proof matches the current reconnection
// challenge data. The challenge data is replaced whether or not the attempt succeeds.
func (s *Server) VerifyReconnectionAttempt(clientData ReconnectData, clientProof Digest) bool {
	expected := srp.ReconnectProof(s.username.String(), clientData, s.reconnectData, s.sessionKey)

	s.reconnectData = randomReconnectData()

	return subtle.ConstantTimeCompare(expected[:], clientProof[:]) == 1
}

package wowsrp

import (
	"encoding"
	"fmt"

	"github.com/codahale/wowsrp/internal/srp"
	"github.com/mr-tron/base58"
)

// Verifier is the server's stored record of a user's password: the username, a random salt, and
// the password verifier derived from them.
//
// It can be marshalled and unmarshalled as a base58 string for storage.
type Verifier struct {
	username         NormalizedString
	passwordVerifier Key
	salt             Key
}

// NewVerifier creates a Verifier for the given username and password with a random salt.
func NewVerifier(username, password NormalizedString) *Verifier {
	return newVerifier(username, password, randomKey())
}

func newVerifier(username, password NormalizedString, salt Key) *Verifier {
	return &Verifier{
		username:         username,
		passwordVerifier: srp.PasswordVerifier(username.String(), password.String(), salt),
		salt:             salt,
	}
}

// VerifierFromDatabase creates a Verifier from previously stored values.
func VerifierFromDatabase(username NormalizedString, passwordVerifier, salt Key) *Verifier {
	return &Verifier{username: username, passwordVerifier: passwordVerifier, salt: salt}
}

// Username returns the normalized username.
func (v *Verifier) Username() NormalizedString {
	return v.username
}

// PasswordVerifier returns the password verifier.
func (v *Verifier) PasswordVerifier() Key {
	return v.passwordVerifier
}

// Salt returns the salt.
func (v *Verifier) Salt() Key {
	return v.salt
}

// IntoProof generates a random server private key and returns the Proof to be sent to the
// client.
func (v *Verifier) IntoProof() *Proof {
	return v.intoProof(randomKey())
}

func (v *Verifier) intoProof(serverPrivateKey Key) *Proof {
	return &Proof{
		username:         v.username,
		salt:             v.salt,
		passwordVerifier: v.passwordVerifier,
		serverPrivateKey: serverPrivateKey,
		serverPublicKey:  srp.ServerPublicKey(v.passwordVerifier, serverPrivateKey),
	}
}

// MarshalBinary encodes the verifier as the username's length, the username, the password
// verifier, and the salt.
func (v *Verifier) MarshalBinary() ([]byte, error) {
	name := v.username.String()

	b := make([]byte, 0, 1+len(name)+2*KeyLength)
	b = append(b, byte(len(name)))
	b = append(b, name...)
	b = append(b, v.passwordVerifier[:]...)
	b = append(b, v.salt[:]...)

	return b, nil
}

// UnmarshalBinary decodes the results of MarshalBinary.
func (v *Verifier) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("%w: bad length", ErrInvalidVerifier)
	}

	n := int(data[0])
	if len(data) != 1+n+2*KeyLength {
		return fmt.Errorf("%w: bad length", ErrInvalidVerifier)
	}

	username, err := NewNormalizedString(string(data[1 : 1+n]))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidVerifier, err)
	}

	data = data[1+n:]

	v.username = username
	copy(v.passwordVerifier[:], data[:KeyLength])
	copy(v.salt[:], data[KeyLength:])

	return nil
}

// MarshalText encodes the verifier as base58 text.
func (v *Verifier) MarshalText() ([]byte, error) {
	b, err := v.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return []byte(base58.Encode(b)), nil
}

// UnmarshalText decodes the results of MarshalText.
func (v *Verifier) UnmarshalText(text []byte) error {
	b, err := base58.Decode(string(text))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidVerifier, err)
	}

	return v.UnmarshalBinary(b)
}

// String returns the verifier as base58 text.
func (v *Verifier) String() string {
	text, err := v.MarshalText()
	if err != nil {
		panic(err)
	}

	return string(text)
}

var (
	_ encoding.BinaryMarshaler   = &Verifier{}
	_ encoding.BinaryUnmarshaler = &Verifier{}
	_ encoding.TextMarshaler     = &Verifier{}
	_ encoding.TextUnmarshaler   = &Verifier{}
	_ fmt.Stringer               = &Verifier{}
)

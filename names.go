package wowsrp

import (
	"fmt"
	"strings"
)

// MaximumNameLength is the maximum length of a username or password in bytes.
const MaximumNameLength = 16

// NormalizedString is a username or password as it is used by the protocol: between 1 and 16
// printable ASCII characters, upper-cased.
//
// Clients and servers which normalize names differently derive different session keys without
// any other indication of failure, so all names pass through NewNormalizedString.
type NormalizedString struct {
	s string
}

// NewNormalizedString validates and upper-cases the given string.
func NewNormalizedString(s string) (NormalizedString, error) {
	if len(s) == 0 || len(s) > MaximumNameLength {
		return NormalizedString{}, fmt.Errorf("%w: length must be between 1 and %d bytes",
			ErrInvalidName, MaximumNameLength)
	}

	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c > 0x7e {
			return NormalizedString{}, fmt.Errorf("%w: character %q not allowed", ErrInvalidName, c)
		}
	}

	return NormalizedString{s: strings.ToUpper(s)}, nil
}

// MustNormalizedString is like NewNormalizedString but panics on invalid input.
func MustNormalizedString(s string) NormalizedString {
	n, err := NewNormalizedString(s)
	if err != nil {
		panic(err)
	}

	return n
}

// String returns the normalized string.
func (n NormalizedString) String() string {
	return n.s
}

var _ fmt.Stringer = NormalizedString{}

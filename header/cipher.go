package header

// Encrypter obscures outgoing header bytes in place, advancing its state.
type Encrypter interface {
	Encrypt(data []byte)
}

// Decrypter recovers incoming header bytes in place, advancing its state.
type Decrypter interface {
	Decrypt(data []byte)
}

// Crypto is the pair of ciphers for a single connection: one for outgoing headers, one for
// incoming headers. Neither half is safe for concurrent use.
type Crypto struct {
	Encrypter
	Decrypter
}

// Split returns the two halves of the pair, so that reads and writes can happen on different
// goroutines.
func (c *Crypto) Split() (Encrypter, Decrypter) {
	return c.Encrypter, c.Decrypter
}

var (
	_ Encrypter = &Crypto{}
	_ Decrypter = &Crypto{}
)

// Null leaves headers unchanged. It is used for the messages exchanged before the session key is
// known.
type Null struct{}

// Encrypt does nothing.
func (Null) Encrypt([]byte) {}

// Decrypt does nothing.
func (Null) Decrypt([]byte) {}

var (
	_ Encrypter = Null{}
	_ Decrypter = Null{}
)

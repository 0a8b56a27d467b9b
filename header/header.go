// Package header implements the ciphers which obscure World of Warcraft world-server message
// headers.
//
// Headers sent by the client are six bytes long: a big-endian 16-bit size followed by a
// little-endian 32-bit opcode. Headers sent by the server are four bytes long: a big-endian 16-bit
// size followed by a little-endian 16-bit opcode. Wrath servers may send messages larger than
// 0x7FFF bytes, in which case the size grows to 24 bits, the high bit of its first byte is set,
// and the header is five bytes long.
//
// Only the headers are encrypted. Three generations of cipher are supported: vanilla and TBC use
// a feedback cipher keyed with the session key, and wrath uses RC4. Every cipher keeps state for
// the lifetime of the connection, so every header must pass through it in order and none may be
// skipped.
package header

import (
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/cryptobyte"
)

const (
	// ClientHeaderLength is the length of a header sent by a client.
	ClientHeaderLength = 6

	// ServerHeaderLength is the length of a header sent by a server.
	ServerHeaderLength = 4

	// WideServerHeaderLength is the length of a wrath server header with a 24-bit size.
	WideServerHeaderLength = 5

	// MaximumServerSize is the largest size a wrath server sends in a four-byte header.
	MaximumServerSize = 0x7fff

	// MaximumWideServerSize is the largest size a wrath server header can hold.
	MaximumWideServerSize = 0x7fffff

	wideFlag = 0x80
)

// ErrSizeTooLarge is returned when a size does not fit in a server header.
var ErrSizeTooLarge = errors.New("header size too large")

// Header is a decrypted message header. The size includes the opcode but not the size field.
type Header struct {
	Size   uint32
	Opcode uint32
}

// EncryptClientHeader returns an encrypted client header.
func EncryptClientHeader(e Encrypter, size uint16, opcode uint32) [ClientHeaderLength]byte {
	var b [ClientHeaderLength]byte

	out := cryptobyte.NewFixedBuilder(b[:0])
	out.AddUint16(size)
	out.AddBytes(littleEndianU32(opcode))
	out.BytesOrPanic()

	e.Encrypt(b[:])

	return b
}

// DecryptClientHeader decrypts an encrypted client header.
func DecryptClientHeader(d Decrypter, data [ClientHeaderLength]byte) Header {
	d.Decrypt(data[:])

	var size uint16

	s := cryptobyte.String(data[:])
	s.ReadUint16(&size)

	return Header{Size: uint32(size), Opcode: binary.LittleEndian.Uint32(s)}
}

// WriteClientHeader encrypts a client header and writes it to w.
func WriteClientHeader(w io.Writer, e Encrypter, size uint16, opcode uint32) error {
	b := EncryptClientHeader(e, size, opcode)
	_, err := w.Write(b[:])

	return err
}

// ReadClientHeader reads a complete client header from r and decrypts it. If r returns fewer than
// ClientHeaderLength bytes, the decrypter is left untouched.
func ReadClientHeader(r io.Reader, d Decrypter) (Header, error) {
	var b [ClientHeaderLength]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, err
	}

	return DecryptClientHeader(d, b), nil
}

// EncryptServerHeader returns an encrypted four-byte server header.
func EncryptServerHeader(e Encrypter, size, opcode uint16) [ServerHeaderLength]byte {
	var b [ServerHeaderLength]byte

	out := cryptobyte.NewFixedBuilder(b[:0])
	out.AddUint16(size)
	out.AddBytes(littleEndianU16(opcode))
	out.BytesOrPanic()

	e.Encrypt(b[:])

	return b
}

// DecryptServerHeader decrypts an encrypted four-byte server header.
func DecryptServerHeader(d Decrypter, data [ServerHeaderLength]byte) Header {
	d.Decrypt(data[:])

	var size uint16

	s := cryptobyte.String(data[:])
	s.ReadUint16(&size)

	return Header{Size: uint32(size), Opcode: uint32(binary.LittleEndian.Uint16(s))}
}

// WriteServerHeader encrypts a four-byte server header and writes it to w.
func WriteServerHeader(w io.Writer, e Encrypter, size, opcode uint16) error {
	b := EncryptServerHeader(e, size, opcode)
	_, err := w.Write(b[:])

	return err
}

// ReadServerHeader reads a complete four-byte server header from r and decrypts it. If r returns
// fewer than ServerHeaderLength bytes, the decrypter is left untouched.
func ReadServerHeader(r io.Reader, d Decrypter) (Header, error) {
	var b [ServerHeaderLength]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, err
	}

	return DecryptServerHeader(d, b), nil
}

// AppendWrathServerHeader appends an encrypted wrath server header to dst. Sizes above
// MaximumServerSize produce a five-byte header; sizes above MaximumWideServerSize return
// ErrSizeTooLarge.
func AppendWrathServerHeader(dst []byte, e Encrypter, size uint32, opcode uint16) ([]byte, error) {
	if size > MaximumWideServerSize {
		return dst, ErrSizeTooLarge
	}

	start := len(dst)
	out := cryptobyte.NewBuilder(dst)

	if size > MaximumServerSize {
		out.AddUint24(size | wideFlag<<16)
	} else {
		out.AddUint16(uint16(size))
	}

	out.AddBytes(littleEndianU16(opcode))

	b, err := out.Bytes()
	if err != nil {
		return dst, err
	}

	e.Encrypt(b[start:])

	return b, nil
}

// WriteWrathServerHeader encrypts a wrath server header and writes it to w.
func WriteWrathServerHeader(w io.Writer, e Encrypter, size uint32, opcode uint16) error {
	b, err := AppendWrathServerHeader(make([]byte, 0, WideServerHeaderLength), e, size, opcode)
	if err != nil {
		return err
	}

	_, err = w.Write(b)

	return err
}

// ReadWrathServerHeader reads a four- or five-byte wrath server header from r and decrypts it.
//
// The length of the header is only known once its first byte is decrypted, so the first byte is
// read and decrypted on its own before the rest. If r fails after the first byte, the decrypter
// has advanced by one byte and the connection can't be recovered.
func ReadWrathServerHeader(r io.Reader, d Decrypter) (Header, error) {
	var b [WideServerHeaderLength]byte

	// Read and decrypt the first byte to find out how long the header is.
	if _, err := io.ReadFull(r, b[:1]); err != nil {
		return Header{}, err
	}

	d.Decrypt(b[:1])

	n := ServerHeaderLength
	if b[0]&wideFlag != 0 {
		n = WideServerHeaderLength
	}

	// Read and decrypt the rest of the header.
	if _, err := io.ReadFull(r, b[1:n]); err != nil {
		return Header{}, unexpected(err)
	}

	d.Decrypt(b[1:n])

	return parseWrathServerHeader(b[:n]), nil
}

func parseWrathServerHeader(b []byte) Header {
	var size uint32

	s := cryptobyte.String(b)

	if len(b) == WideServerHeaderLength {
		s.ReadUint24(&size)
		size &^= wideFlag << 16
	} else {
		var small uint16

		s.ReadUint16(&small)
		size = uint32(small)
	}

	return Header{Size: size, Opcode: uint32(binary.LittleEndian.Uint16(s))}
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}

func littleEndianU16(n uint16) []byte {
	var b [2]byte

	binary.LittleEndian.PutUint16(b[:], n)

	return b[:]
}

func littleEndianU32(n uint32) []byte {
	var b [4]byte

	binary.LittleEndian.PutUint32(b[:], n)

	return b[:]
}

// Package integrity implements the client file integrity check, which proves to the server that
// the client's game files are unmodified, and its reconnection counterpart.
package integrity

import (
	"crypto/hmac"
	"crypto/sha1"
	"io/fs"

	"github.com/codahale/wowsrp"
	"github.com/codahale/wowsrp/internal/codec"
)

// SaltLength is the length of the checksum salt sent by the server.
const SaltLength = 16

// Salt is the random checksum salt sent by the server.
type Salt [SaltLength]byte

// Platform selects which client files are checked.
type Platform int

const (
	Windows Platform = iota // Windows checks the Windows client's executable and libraries.
	Mac                     // Mac checks the Mac client's executable and bundle resources.
)

// FileNames returns the names of the platform's checked files, in the order they are hashed.
func (p Platform) FileNames() []string {
	switch p {
	case Windows:
		return []string{"WoW.exe", "fmod.dll", "ijl15.dll", "dbghelp.dll", "unicows.dll"}
	case Mac:
		return []string{"World of Warcraft", "Info.plist", "objects.xib", "WoW.icns", "PkgInfo"}
	default:
		panic("integrity: unknown platform")
	}
}

// String returns the platform's name.
func (p Platform) String() string {
	if p == Mac {
		return "mac"
	}

	return "windows"
}

// GenericCheck returns SHA1(clientPublicKey || HMAC-SHA1(checksumSalt, allFiles)), where allFiles
// is the contents of every checked file concatenated in order.
func GenericCheck(allFiles []byte, checksumSalt Salt, clientPublicKey wowsrp.Key) wowsrp.Digest {
	mac := hmac.New(sha1.New, checksumSalt[:])
	_, _ = mac.Write(allFiles)

	h := sha1.New()
	_, _ = h.Write(clientPublicKey[:])
	_, _ = h.Write(mac.Sum(nil))

	var d wowsrp.Digest

	copy(d[:], h.Sum(nil))

	return d
}

// WindowsCheck returns the integrity hash of the Windows client's files.
func WindowsCheck(
	wowExe, fmodDLL, ijl15DLL, dbghelpDLL, unicowsDLL []byte, checksumSalt Salt, clientPublicKey wowsrp.Key,
) wowsrp.Digest {
	return GenericCheck(codec.Concat(wowExe, fmodDLL, ijl15DLL, dbghelpDLL, unicowsDLL), checksumSalt, clientPublicKey)
}

// MacCheck returns the integrity hash of the Mac client's files.
func MacCheck(
	executable, infoPlist, objectsXib, wowIcns, pkgInfo []byte, checksumSalt Salt, clientPublicKey wowsrp.Key,
) wowsrp.Digest {
	return GenericCheck(codec.Concat(executable, infoPlist, objectsXib, wowIcns, pkgInfo), checksumSalt, clientPublicKey)
}

// Check reads the platform's files from fsys and returns their integrity hash.
func Check(fsys fs.FS, p Platform, checksumSalt Salt, clientPublicKey wowsrp.Key) (wowsrp.Digest, error) {
	var files [][]byte

	for _, name := range p.FileNames() {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return wowsrp.Digest{}, err
		}

		files = append(files, b)
	}

	return GenericCheck(codec.Concat(files...), checksumSalt, clientPublicKey), nil
}

// ReconnectCheck returns SHA1(checksumSalt || 20 zero bytes), which a reconnecting client sends in
// place of a file check.
func ReconnectCheck(checksumSalt Salt) wowsrp.Digest {
	var b [SaltLength + sha1.Size]byte

	copy(b[:], checksumSalt[:])

	return sha1.Sum(b[:])
}

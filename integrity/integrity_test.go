package integrity

import (
	"encoding/hex"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/codahale/gubbins/assert"
	"github.com/codahale/wowsrp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

//nolint:gochecknoglobals // test vectors
var (
	salt = Salt{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	pkA  = func() (k wowsrp.Key) {
		for i := range k {
			k[i] = byte(32 + i)
		}

		return
	}()
)

func TestWindowsCheck(t *testing.T) {
	t.Parallel()

	got := WindowsCheck([]byte("WoW.exe"), []byte("fmod.dll"), []byte("ijl15.dll"), []byte("dbghelp.dll"),
		[]byte("unicows.dll"), salt, pkA)

	assert.Equal(t, "hash", "a57d87741f8cf29aabca49db87c48c6e27f024ca", hex.EncodeToString(got[:]))
}

func TestMacCheck(t *testing.T) {
	t.Parallel()

	got := MacCheck([]byte("World of Warcraft"), []byte("Info.plist"), []byte("objects.xib"),
		[]byte("WoW.icns"), []byte("PkgInfo"), salt, pkA)

	assert.Equal(t, "hash", "fa50a57a920a39639c8178f8859c85aa37d99885", hex.EncodeToString(got[:]))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	for _, p := range []Platform{Windows, Mac} {
		p := p

		t.Run(p.String(), func(t *testing.T) {
			t.Parallel()

			// Each file contains its own name.
			fsys := fstest.MapFS{}
			for _, name := range p.FileNames() {
				fsys[name] = &fstest.MapFile{Data: []byte(name)}
			}

			got, err := Check(fsys, p, salt, pkA)
			if err != nil {
				t.Fatal(err)
			}

			var files []byte
			for _, name := range p.FileNames() {
				files = append(files, name...)
			}

			assert.Equal(t, "hash", GenericCheck(files, salt, pkA), got)
		})
	}
}

func TestCheck_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Check(fstest.MapFS{}, Windows, salt, pkA)

	assert.Equal(t, "error", fs.ErrNotExist, err, cmpopts.EquateErrors())
}

func TestGenericCheck_Sensitive(t *testing.T) {
	t.Parallel()

	files := []byte("some game files")
	base := GenericCheck(files, salt, pkA)

	otherSalt := salt
	otherSalt[0] ^= 1

	otherKey := pkA
	otherKey[31] ^= 1

	if GenericCheck([]byte("some game filez"), salt, pkA) == base {
		t.Error("file contents should change the hash")
	}

	if GenericCheck(files, otherSalt, pkA) == base {
		t.Error("salt should change the hash")
	}

	if GenericCheck(files, salt, otherKey) == base {
		t.Error("public key should change the hash")
	}

	assert.Equal(t, "deterministic", base, GenericCheck(files, salt, pkA))
}

func TestReconnectCheck(t *testing.T) {
	t.Parallel()

	got := ReconnectCheck(salt)

	assert.Equal(t, "hash", "8fab37686538cc157920068dec81eddcf8f233a8", hex.EncodeToString(got[:]))
}

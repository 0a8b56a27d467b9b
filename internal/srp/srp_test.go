package srp

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/codahale/gubbins/assert"
)

func TestXorHash(t *testing.T) {
	t.Parallel()

	gh := sha1.Sum([]byte{Generator})
	nh := sha1.Sum(LargeSafePrime[:])

	var want [ProofSize]byte
	for i := range want {
		want[i] = gh[i] ^ nh[i]
	}

	assert.Equal(t, "xor hash", want, XorHash)
}

func TestHandshake(t *testing.T) {
	t.Parallel()

	salt := arr32(t, "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	b := arr32(t, "1111111111111111111111111111111111111111111111111111111111111111")
	a := arr32(t, "2222222222222222222222222222222222222222222222222222222222222222")

	x := X("abc", "sdf", salt)
	assert.Equal(t, "x", arr20(t, "918cd0ccefa658732f334d69a18b7032de92b0fb"), x)

	v := PasswordVerifier("abc", "sdf", salt)
	assert.Equal(t, "verifier",
		arr32(t, "418c23e8cb3a38bd2baf317ba09041ab3295bfbb374ba02e1cdda2b57fe4a783"), v)

	pkB := ServerPublicKey(v, b)
	assert.Equal(t, "server public key",
		arr32(t, "a23d4cd98cbc872c0e394a9366bf67a10bb52846524d14e2e58031811bcc5164"), pkB)

	pkA := ClientPublicKey(a)
	assert.Equal(t, "client public key",
		arr32(t, "88e0ef5df78d459842deee637ae4f800bde0888d7595fdc0c6820d824d3fe453"), pkA)

	u := U(pkA, pkB)
	assert.Equal(t, "u", arr20(t, "f88082fa4678677cca8e9a43a40ad0cd71259e5c"), u)

	wantS := arr32(t, "fccfd6da5e980c3f510f61d0e535cf2168dac05777996324cb72e491df902e77")
	assert.Equal(t, "server S", wantS, ServerS(pkA, v, u, b))
	assert.Equal(t, "client S", wantS, ClientS(pkB, a, x, u))

	sessionKey := Interleave(wantS)
	assert.Equal(t, "session key", arr40(t,
		"3792a798a1fbe6d322cd530ed253fbf5cebd78138cd7c430090813ddf41192ffe8bfdfbc76ad5411"), sessionKey)

	m1 := ClientProof("abc", sessionKey, pkA, pkB, salt)
	assert.Equal(t, "client proof", arr20(t, "3d4685a34d6017b2facbd3bf649f41bf11eaec51"), m1)

	m2 := ServerProof(pkA, m1, sessionKey)
	assert.Equal(t, "server proof", arr20(t, "2d7df9ff43140df8bb99e006d6524fbc33d9d90a"), m2)

	var clientData, serverData [ReconnectSize]byte
	copy(clientData[:], bytes.Repeat([]byte{0x33}, ReconnectSize))
	copy(serverData[:], bytes.Repeat([]byte{0x44}, ReconnectSize))

	assert.Equal(t, "reconnect proof", arr20(t, "76369cbb30b37f9a7d77b8e8900208f57ec4b573"),
		ReconnectProof("abc", clientData, serverData, sessionKey))
}

func TestX_CaseInsensitive(t *testing.T) {
	t.Parallel()

	var salt [KeySize]byte

	assert.Equal(t, "x", X("ABC", "SDF", salt), X("abc", "sDf", salt))
}

func TestInterleave(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    string
		want string
	}{
		{
			"no leading zeros",
			"0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20",
			"ed2976c475109d044df3443c9cc86c31077e9c7db8e04d3d699f68bd6bcc6c6b20df81f6b7d66fa0",
		},
		{
			"three leading zeros",
			"000000076465666768696a6b6c6d6e6f707172737475767778797a7b7c7d7e7f",
			"4143c4de0fdd9d36a5dee2b603a8b1cc493deff8f95803def551cd2dba30700b181b81bda0d23b9e",
		},
		{
			"four leading zeros",
			"000000000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c",
			"566d9ac8891f30e50b2d10c0355b8de421c2c1cc1ccd26353474342ac374f0042bfce8ee793a3fac",
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, "session key", arr40(t, tc.want), Interleave(arr32(t, tc.s)))
		})
	}
}

func TestSplitS(t *testing.T) {
	t.Parallel()

	var s [KeySize]byte

	assert.Equal(t, "all zeros", 0, len(splitS(s)))

	s[2] = 1
	assert.Equal(t, "stripped", KeySize-2, len(splitS(s)))
}

func TestValidPublicKey(t *testing.T) {
	t.Parallel()

	var zero [KeySize]byte

	assert.Equal(t, "zero", false, ValidPublicKey(zero))
	assert.Equal(t, "N", false, ValidPublicKey(LargeSafePrime))
	assert.Equal(t, "g", true, ValidPublicKey([KeySize]byte{Generator}))
}

func TestWorldProof(t *testing.T) {
	t.Parallel()

	sessionKey := [SessionKeySize]byte{
		115, 0, 100, 222, 18, 15, 156, 194, 27, 1, 216, 229, 165, 207, 78, 233, 183, 241, 248, 73,
		190, 142, 14, 89, 44, 235, 153, 190, 103, 206, 34, 88, 45, 199, 104, 175, 79, 108, 93, 48,
	}
	want := [ProofSize]byte{
		202, 54, 102, 180, 90, 87, 9, 107, 217, 97, 235, 56, 221, 203, 108, 19, 109, 141, 137, 7,
	}

	assert.Equal(t, "world proof", want, WorldProof("A", 1266519981, 0xDEADBEEF, sessionKey))
}

func BenchmarkServerS(b *testing.B) {
	var a, v, priv [KeySize]byte

	a[0], v[0], priv[0] = 2, 3, 4

	u := U(a, v)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = ServerS(a, v, u, priv)
	}
}

func arr20(t *testing.T, s string) (out [ProofSize]byte) {
	t.Helper()
	copy(out[:], decode(t, s, ProofSize))

	return
}

func arr32(t *testing.T, s string) (out [KeySize]byte) {
	t.Helper()
	copy(out[:], decode(t, s, KeySize))

	return
}

func arr40(t *testing.T, s string) (out [SessionKeySize]byte) {
	t.Helper()
	copy(out[:], decode(t, s, SessionKeySize))

	return
}

func decode(t *testing.T, s string, n int) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}

	if len(b) != n {
		t.Fatalf("bad vector length: %d", len(b))
	}

	return b
}

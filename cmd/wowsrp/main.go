package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"
)

type cli struct {
	Verifier      verifierCmd      `cmd:"" help:"Create a password verifier record for a user."`
	CheckVerifier checkVerifierCmd `cmd:"" help:"Decode a password verifier record."`
	CardNew       cardNewCmd       `cmd:"" help:"Generate a new matrix card and seal it with a passphrase."`
	CardShow      cardShowCmd      `cmd:"" help:"Print a sealed matrix card."`
	CardChallenge cardChallengeCmd `cmd:"" help:"Calculate the expected proof for a matrix card challenge."`
	PinHash       pinHashCmd       `cmd:"" help:"Calculate the hash of a PIN."`
	Integrity     integrityCmd     `cmd:"" help:"Calculate the integrity hash of a client's files."`
}

func main() {
	var cli cli

	ctx := kong.Parse(&cli,
		kong.Name("wowsrp"),
		kong.Description("Tools for World of Warcraft authentication secrets."),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func askPassphrase(prompt string) ([]byte, error) {
	defer func() { _, _ = fmt.Fprintln(os.Stderr) }()

	_, _ = fmt.Fprint(os.Stderr, prompt)

	return term.ReadPassword(int(os.Stdin.Fd()))
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

var _ io.WriteCloser = nopCloser{}

// decodeHex decodes a hex string which must decode to exactly len(dst) bytes.
func decodeHex(dst []byte, s, name string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	if len(b) != len(dst) {
		return fmt.Errorf("invalid %s: expected %d bytes, got %d", name, len(dst), len(b))
	}

	copy(dst, b)

	return nil
}

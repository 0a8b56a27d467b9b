package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/codahale/wowsrp"
)

type checkVerifierCmd struct {
	Record string `arg:"" help:"The verifier record, or the path to a file containing it."`
}

func (cmd *checkVerifierCmd) Run(ctx *kong.Context) error {
	var v wowsrp.Verifier

	// Try decoding the record directly, and otherwise as the contents of a file.
	if err := v.UnmarshalText([]byte(cmd.Record)); err != nil {
		b, ferr := os.ReadFile(cmd.Record)
		if ferr != nil {
			return err
		}

		if err := v.UnmarshalText([]byte(strings.TrimSpace(string(b)))); err != nil {
			return err
		}
	}

	salt, verifier := v.Salt(), v.PasswordVerifier()

	_, err := fmt.Fprintf(ctx.Stdout, "username: %s\nsalt:     %x\nverifier: %x\n",
		v.Username(), salt[:], verifier[:])

	return err
}

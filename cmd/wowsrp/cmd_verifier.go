package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/codahale/wowsrp"
)

type verifierCmd struct {
	Username string `arg:"" help:"The username."`
	Output   string `arg:"" type:"path" default:"-" help:"The output path for the verifier record."`
}

func (cmd *verifierCmd) Run(_ *kong.Context) error {
	username, err := wowsrp.NewNormalizedString(cmd.Username)
	if err != nil {
		return err
	}

	// Prompt for the password twice.
	a, err := askPassphrase("Enter password: ")
	if err != nil {
		return err
	}

	b, err := askPassphrase("Confirm password: ")
	if err != nil {
		return err
	}

	if !bytes.Equal(a, b) {
		return errors.New("passwords do not match")
	}

	password, err := wowsrp.NewNormalizedString(string(a))
	if err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	// Open the output.
	dst, err := openOutput(cmd.Output)
	if err != nil {
		return err
	}

	defer func() { _ = dst.Close() }()

	// Create the verifier, encode it, and write it to the output.
	_, err = io.WriteString(dst, wowsrp.NewVerifier(username, password).String()+"\n")

	return err
}

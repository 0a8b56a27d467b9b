package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/codahale/wowsrp/pin"
)

type pinHashCmd struct {
	Pin        string `arg:"" help:"The PIN, as decimal digits."`
	Seed       uint32 `required:"" help:"The grid seed sent by the server."`
	ServerSalt string `required:"" help:"The server salt, in hex."`
	ClientSalt string `required:"" help:"The client salt, in hex."`
}

func (cmd *pinHashCmd) Run(ctx *kong.Context) error {
	digits := make([]byte, len(cmd.Pin))

	for i, r := range cmd.Pin {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q is not a digit", pin.ErrInvalidPin, r)
		}

		digits[i] = byte(r - '0')
	}

	code, err := pin.CodeFromDigits(digits)
	if err != nil {
		return err
	}

	var serverSalt, clientSalt pin.Salt
	if err := decodeHex(serverSalt[:], cmd.ServerSalt, "server salt"); err != nil {
		return err
	}

	if err := decodeHex(clientSalt[:], cmd.ClientSalt, "client salt"); err != nil {
		return err
	}

	hash := code.Hash(cmd.Seed, serverSalt, clientSalt)

	_, err = fmt.Fprintf(ctx.Stdout, "%x\n", hash[:])

	return err
}

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/codahale/wowsrp"
	"github.com/codahale/wowsrp/integrity"
)

type integrityCmd struct {
	Platform string `arg:"" enum:"windows,mac" help:"The client platform (windows or mac)."`
	Dir      string `arg:"" type:"existingdir" help:"The client's installation directory."`

	Salt      string `required:"" help:"The checksum salt, in hex."`
	PublicKey string `help:"The client public key, in hex. If unset, the reconnect check is calculated."`
}

func (cmd *integrityCmd) Run(ctx *kong.Context) error {
	var salt integrity.Salt
	if err := decodeHex(salt[:], cmd.Salt, "salt"); err != nil {
		return err
	}

	var hash wowsrp.Digest

	if cmd.PublicKey == "" {
		hash = integrity.ReconnectCheck(salt)
	} else {
		var publicKey wowsrp.Key
		if err := decodeHex(publicKey[:], cmd.PublicKey, "public key"); err != nil {
			return err
		}

		platform := integrity.Windows
		if cmd.Platform == integrity.Mac.String() {
			platform = integrity.Mac
		}

		var err error

		hash, err = integrity.Check(os.DirFS(cmd.Dir), platform, salt, publicKey)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(ctx.Stdout, "%x\n", hash[:])

	return err
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/codahale/wowsrp"
	"github.com/codahale/wowsrp/internal/seal"
	"github.com/codahale/wowsrp/matrixcard"
	"github.com/mr-tron/base58"
)

type cardNewCmd struct {
	Output string `arg:"" type:"path" help:"The output path for the sealed card."`

	Digits uint8 `default:"3" help:"The number of digits in each cell."`
	Height uint8 `default:"26" help:"The number of rows on the card."`
	Width  uint8 `default:"26" help:"The number of columns on the card."`
}

func (cmd *cardNewCmd) Run(_ *kong.Context) error {
	// Generate a random card.
	card, err := matrixcard.NewWithParameters(cmd.Digits, cmd.Height, cmd.Width)
	if err != nil {
		return err
	}

	// Prompt for the passphrase.
	passphrase, err := askPassphrase("Enter passphrase: ")
	if err != nil {
		return err
	}

	// Seal the card and write it as base58 text.
	b, _ := card.MarshalBinary()

	dst, err := openOutput(cmd.Output)
	if err != nil {
		return err
	}

	defer func() { _ = dst.Close() }()

	_, err = io.WriteString(dst, base58.Encode(seal.Seal(passphrase, b))+"\n")

	return err
}

type cardShowCmd struct {
	Card string `arg:"" type:"existingfile" help:"The path to the sealed card."`
}

func (cmd *cardShowCmd) Run(ctx *kong.Context) error {
	card, err := openCard(cmd.Card)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(ctx.Stdout, 0, 0, 1, ' ', tabwriter.AlignRight)

	// Print the column header.
	header := make([]string, 0, card.Width()+1)
	header = append(header, "")

	for x := 0; x < int(card.Width()); x++ {
		header = append(header, columnName(x))
	}

	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	// Print each row, prefixed by its number.
	for y, row := range card.Rows() {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t\n", y+1, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

type cardChallengeCmd struct {
	Card       string `arg:"" type:"existingfile" help:"The path to the sealed card."`
	SessionKey string `arg:"" help:"The session key, in hex."`

	Seed       uint64 `help:"The challenge seed (random if unset)."`
	Challenges uint8  `default:"2" help:"The number of cells challenged."`
}

func (cmd *cardChallengeCmd) Run(ctx *kong.Context) error {
	var sessionKey wowsrp.SessionKey
	if err := decodeHex(sessionKey[:], cmd.SessionKey, "session key"); err != nil {
		return err
	}

	card, err := openCard(cmd.Card)
	if err != nil {
		return err
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = matrixcard.Seed()
	}

	// Print the challenged cells.
	coordinates, err := matrixcard.GenerateCoordinates(card.Height(), card.Width(), cmd.Challenges, seed)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "seed:  %d\ncells:", seed)

	for _, c := range coordinates {
		x, y := matrixcard.Coordinate(c, card.Width())
		_, _ = fmt.Fprintf(ctx.Stdout, " %s%d", columnName(int(x)), y+1)
	}

	// Print the proof the client should send.
	proof, err := matrixcard.ExpectedHash(card, cmd.Challenges, seed, sessionKey)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(ctx.Stdout, "\nproof: %x\n", proof[:])

	return err
}

// openCard reads a sealed card from the given path, prompting for its passphrase.
func openCard(path string) (*matrixcard.Card, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sealed, err := base58.Decode(strings.TrimSpace(string(text)))
	if err != nil {
		return nil, fmt.Errorf("invalid card: %w", err)
	}

	passphrase, err := askPassphrase("Enter passphrase: ")
	if err != nil {
		return nil, err
	}

	b, err := seal.Open(passphrase, sealed)
	if err != nil {
		return nil, err
	}

	var card matrixcard.Card
	if err := card.UnmarshalBinary(b); err != nil {
		return nil, err
	}

	return &card, nil
}

// columnName returns the spreadsheet-style letter for a column: A, B, ..., Z, AA, AB, ...
func columnName(x int) string {
	name := ""

	for x++; x > 0; x = (x - 1) / 26 {
		name = string(rune('A'+(x-1)%26)) + name
	}

	return name
}

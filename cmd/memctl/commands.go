package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"

	"github.com/arloliu/mempack/encoding"
	"github.com/arloliu/mempack/internal/hash"
	"github.com/arloliu/mempack/memory"
)

// packCommand packs its arguments and prints the result as hex.
type packCommand struct {
	e      *env
	format *string
	args   *[]string
}

func (cmd *packCommand) run(*kingpin.ParseContext) error {
	p, err := cmd.e.packer()
	if err != nil {
		return err
	}
	vals, err := parseArgs(p.Context(), *cmd.format, *cmd.args)
	if err != nil {
		return fmt.Errorf("pack %q: %w", *cmd.format, err)
	}

	alloc, closeAlloc := cmd.e.cfg.newAllocator()
	defer func() {
		if err := closeAlloc(); err != nil {
			cmd.e.logger.Warn().Err(err).Msg("failed to close allocator")
		}
	}()

	m, err := memory.NewResizable(memory.WithAllocator(alloc), memory.WithSize(cmd.e.cfg.InitialSize))
	if err != nil {
		return err
	}
	defer m.Release()

	w, err := encoding.NewWriter(m, p)
	if err != nil {
		return err
	}
	if err := w.Pack(*cmd.format, vals...); err != nil {
		return fmt.Errorf("pack %q: %w", *cmd.format, err)
	}

	cmd.e.logger.Debug().
		Str("format", *cmd.format).
		Str("allocator", cmd.e.cfg.Allocator).
		Int("args", len(vals)).
		Str("size", humanize.Bytes(uint64(w.Len()))).
		Msg("packed record")
	fmt.Fprintln(cmd.e.stdout, hex.EncodeToString(w.Bytes()))

	return nil
}

func addPackCommand(app *kingpin.Application, e *env) {
	cmd := &packCommand{e: e}
	c := app.Command("pack", "Pack arguments with a format and print the bytes as hex.").Action(cmd.run)
	cmd.format = c.Arg("format", "The format string.").Required().String()
	cmd.args = c.Arg("args", "One argument per value-consuming option.").Strings()
}

// unpackCommand decodes hex input and prints one value per line.
type unpackCommand struct {
	e      *env
	format *string
	data   *string
	pos    *int
}

func (cmd *unpackCommand) run(*kingpin.ParseContext) error {
	data, err := hex.DecodeString(strings.Join(strings.Fields(*cmd.data), ""))
	if err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	p, err := cmd.e.packer()
	if err != nil {
		return err
	}

	vals, next, err := p.Unpack(data, *cmd.pos, *cmd.format)
	if err != nil {
		return fmt.Errorf("unpack %q: %w", *cmd.format, err)
	}

	cmd.e.logger.Debug().
		Str("format", *cmd.format).
		Int("values", len(vals)).
		Int("next", next).
		Msg("unpacked record")
	for _, v := range vals {
		fmt.Fprintln(cmd.e.stdout, v.String())
	}

	return nil
}

func addUnpackCommand(app *kingpin.Application, e *env) {
	cmd := &unpackCommand{e: e}
	c := app.Command("unpack", "Unpack hex input with a format and print one value per line.").Action(cmd.run)
	cmd.pos = c.Flag("pos", "1-based start position; negative counts from the end.").Default("1").Int()
	cmd.format = c.Arg("format", "The format string.").Required().String()
	cmd.data = c.Arg("hex", "The packed bytes in hex.").Required().String()
}

// sizeCommand prints the size of fixed-size formats.
type sizeCommand struct {
	e       *env
	formats *[]string
}

func (cmd *sizeCommand) run(*kingpin.ParseContext) error {
	p, err := cmd.e.packer()
	if err != nil {
		return err
	}
	ctx := p.Context()
	for _, f := range *cmd.formats {
		n, err := ctx.Size(f)
		if err != nil {
			return fmt.Errorf("size %q: %w", f, err)
		}
		cmd.e.logger.Debug().Str("format", f).Str("id", fmt.Sprintf("%016x", hash.FormatID(f))).Msg("sized format")
		fmt.Fprintf(cmd.e.stdout, "%d\t%s\t%s\n", n, humanize.IBytes(uint64(n)), f)
	}

	return nil
}

func addSizeCommand(app *kingpin.Application, e *env) {
	cmd := &sizeCommand{e: e}
	c := app.Command("size", "Print the packed size of fixed-size formats.").Action(cmd.run)
	cmd.formats = c.Arg("format", "The format strings.").Required().Strings()
}

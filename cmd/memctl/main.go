// Command memctl packs and unpacks binary records from the command line.
//
//	memctl pack '<i2 z' 7 hello      # prints 070068656c6c6f00
//	memctl unpack '<i2 z' 070068656c6c6f00
//	memctl size '!8 b d' 'i4 x'
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/rs/zerolog"

	"github.com/arloliu/mempack/encoding"
	"github.com/arloliu/mempack/internal/observability"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// env is shared by all commands. It is filled in before a command runs.
type env struct {
	configPath *string
	logLevel   *string
	padByte    *string

	stdout io.Writer
	stderr io.Writer

	cfg    config
	logger zerolog.Logger
}

func (e *env) setup(*kingpin.ParseContext) error {
	e.cfg = defaultConfig()
	if *e.configPath != "" {
		cfg, err := loadConfig(*e.configPath)
		if err != nil {
			return err
		}
		e.cfg = cfg
	}
	if *e.logLevel != "" {
		e.cfg.LogLevel = *e.logLevel
	}
	if *e.padByte != "" {
		b, err := parsePadByte(*e.padByte)
		if err != nil {
			return err
		}
		e.cfg.PadByte = b
	}
	e.logger = observability.InitLogger("memctl", e.cfg.LogLevel, e.stderr)

	return nil
}

func (e *env) packer() (*encoding.Packer, error) {
	return encoding.NewPacker(encoding.WithPadByte(e.cfg.PadByte))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("memctl", "Pack and unpack binary records.")
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)
	status := -1
	app.Terminate(func(code int) { status = code })
	app.HelpFlag.Short('h')

	e := &env{stdout: stdout, stderr: stderr}
	e.configPath = app.Flag("config", "Path to a TOML config file.").Short('c').String()
	e.logLevel = app.Flag("log-level", "Log level (debug, info, warn, error).").String()
	e.padByte = app.Flag("pad-byte", "Byte written for padding, as a number or a single character.").String()
	app.PreAction(e.setup)

	addPackCommand(app, e)
	addUnpackCommand(app, e)
	addSizeCommand(app, e)

	_, err := app.Parse(args)
	if status >= 0 {
		return status
	}
	if err != nil {
		fmt.Fprintf(stderr, "memctl: %v\n", err)
		return 1
	}

	return 0
}

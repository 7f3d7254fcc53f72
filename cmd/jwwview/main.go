// Command jwwview inspects and prints parsed JWW drawings from the command
// line. Input is the JSON emitted by the JWW parser.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/svgjww/viewer/internal/config"
	"github.com/svgjww/viewer/internal/document"
	"github.com/svgjww/viewer/internal/engine"
)

const usage = `usage: jwwview <command> [flags] [document.json]

commands:
  info    print a document summary and layer table
  print   write a print-ready SVG or PNG
`

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, pflag.ErrHelp) {
			slog.Error("jwwview failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	switch args[0] {
	case "info":
		return runInfo(args[1:], stdout, stderr)
	case "print":
		return runPrint(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return errUsage
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	sample   bool
	parser   string
	logLevel string
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&c.sample, "sample", false, "use the built-in sample drawing instead of a file")
	fs.StringVar(&c.parser, "parser", "", "command that converts a .jww file to parser JSON (stdin to stdout)")
	fs.StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func (c *commonFlags) setupLogging(stderr io.Writer) error {
	level, err := config.ParseLevel(c.logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// load builds an engine session from the positional argument or the
// sample drawing. Without --parser the file must be parser JSON.
func (c *commonFlags) load(fs *pflag.FlagSet) (*engine.Engine, error) {
	e := engine.NewEngine()
	if c.sample {
		e.LoadSampleDocument()
		return e, nil
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("%w: expected one document file, got %d", errUsage, fs.NArg())
	}
	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if err := e.LoadFile(c.parseFunc(), data, path); err != nil {
		return nil, err
	}
	return e, nil
}

// parseFunc returns the --parser command, or a pass-through when the input
// is parser JSON already.
func (c *commonFlags) parseFunc() document.ParseFunc {
	fields := strings.Fields(c.parser)
	if len(fields) == 0 {
		return document.PassThrough
	}
	return document.CommandParser(fields[0], fields[1:]...)
}

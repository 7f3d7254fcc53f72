package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/svgjww/viewer/internal/engine"
	"github.com/svgjww/viewer/internal/printout"
)

func runPrint(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("print", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	format := fs.StringP("format", "f", "svg", "output format: svg or png")
	out := fs.StringP("output", "o", "-", "output file, - for stdout")
	width := fs.Int("width", 1600, "PNG width in pixels")
	hidden := fs.IntSlice("hide-layer", nil, "layer ids to leave out (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := common.setupLogging(stderr); err != nil {
		return err
	}
	if *format != "svg" && *format != "png" {
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}

	e, err := common.load(fs)
	if err != nil {
		return err
	}
	for _, id := range *hidden {
		off := false
		if _, err := e.Dispatch(engine.Action{Role: "set_layer_visible", Layer: id, Enabled: &off}); err != nil {
			return err
		}
	}

	var data []byte
	switch *format {
	case "svg":
		svg, err := printout.SVG(e.Scene(), e.Document().PaperSize)
		if err != nil {
			return err
		}
		data = []byte(svg)
	case "png":
		data, err = printout.PNG(e.Scene(), *width)
		if err != nil {
			return err
		}
	}

	if *out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	slog.Info("printed", "format", *format, "output", *out, "bytes", len(data))
	return nil
}

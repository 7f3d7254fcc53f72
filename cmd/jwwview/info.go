package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

func runInfo(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("info", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	asJSON := fs.Bool("json", false, "print the summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := common.setupLogging(stderr); err != nil {
		return err
	}

	e, err := common.load(fs)
	if err != nil {
		return err
	}
	info, err := e.DocumentInfo()
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Document interface{} `json:"document"`
			Layers   interface{} `json:"layers"`
		}{info, e.Layers()})
	}

	fmt.Fprintf(stdout, "source:   %s\n", info.Source)
	fmt.Fprintf(stdout, "version:  %d\n", info.Version)
	fmt.Fprintf(stdout, "paper:    %s\n", info.PaperSize)
	if info.Memo != "" {
		fmt.Fprintf(stdout, "memo:     %s\n", info.Memo)
	}
	b := info.Bounds
	fmt.Fprintf(stdout, "bounds:   (%g, %g) - (%g, %g)\n", b.MinX, b.MinY, b.MaxX, b.MaxY)
	c := info.EntityCounts
	fmt.Fprintf(stdout, "entities: %d lines, %d arcs, %d points, %d texts, %d solids, %d blocks, %d images\n",
		c.Lines, c.Arcs, c.Points, c.Texts, c.Solids, c.Blocks, c.Images)
	if ps := info.PrintSettings; ps != nil {
		fmt.Fprintf(stdout, "print:    origin (%g, %g) scale %g\n", ps.OriginX, ps.OriginY, ps.Scale)
	}

	fmt.Fprintln(stdout)
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tNAME\tENTITIES")
	for _, l := range e.Layers() {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", l.ID, l.Name, l.EntityCount)
	}
	return tw.Flush()
}

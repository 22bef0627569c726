// Command vmdatamash is a line-oriented tabular data processor: a
// DSL-driven grouped-aggregation engine in the spirit of GNU datamash,
// wired with the same ambient stack (structured logging, pull metrics,
// YAML config defaults) every other VictoriaMetrics-family binary carries.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/VictoriaMetrics/vmdatamash/lib/config"
	"github.com/VictoriaMetrics/vmdatamash/lib/groupagg"
	"github.com/VictoriaMetrics/vmdatamash/lib/logger"
	"github.com/VictoriaMetrics/vmdatamash/lib/metrics"
)

func main() {
	app := &cli.App{
		Name:      "vmdatamash",
		Usage:     "line-oriented tabular data processor: grouped aggregation, crosstab, and per-line transforms",
		ArgsUsage: "[mode] op field [op field...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "g", Usage: "group by columns X[,Y,...] (equivalent to a leading 'groupby X,Y,...')"},
			&cli.BoolFlag{Name: "f", Usage: "print entire input line before aggregate columns"},
			&cli.StringFlag{Name: "t", Usage: "use single-byte C as the input field delimiter"},
			&cli.BoolFlag{Name: "W", Usage: "use a whitespace run as the input field delimiter"},
			&cli.BoolFlag{Name: "T", Usage: "use TAB as the input field delimiter"},
			&cli.BoolFlag{Name: "z", Usage: "use NUL as the line/record terminator"},
			&cli.BoolFlag{Name: "H", Usage: "shorthand for --header-in --header-out"},
			&cli.BoolFlag{Name: "header-in", Usage: "first input line is a header of field names"},
			&cli.BoolFlag{Name: "header-out", Usage: "print a header line before the first result"},
			&cli.BoolFlag{Name: "i", Usage: "case-insensitive grouping and text operations"},
			&cli.BoolFlag{Name: "s", Usage: "pipe input through the system sort before grouping"},
			&cli.BoolFlag{Name: "C", Usage: "skip comment lines (# or ; at line start)"},
			&cli.BoolFlag{Name: "no-strict", Usage: "accept ragged input (varying field counts)"},
			&cli.StringFlag{Name: "filler", Value: "N/A", Usage: "string used to fill short rows"},
			&cli.BoolFlag{Name: "narm", Usage: "skip unparseable numeric values instead of failing"},
			&cli.IntFlag{Name: "R", Value: -1, Usage: "round numeric outputs to N decimal places"},
			&cli.StringFlag{Name: "format", Usage: "printf-style numeric output format"},
			&cli.StringFlag{Name: "output-delimiter", Usage: "override the output field delimiter"},
			&cli.StringFlag{Name: "config", Usage: "optional YAML file of default flag values"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address while running"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn, or error"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vmdatamash: "+err.Error())
		os.Exit(exitCodeFor(err))
	}
}

func run(c *cli.Context) error {
	fd, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	level := c.String("log-level")
	if !c.IsSet("log-level") && fd.LogLevel != "" {
		level = fd.LogLevel
	}
	logger.Init(level)

	opts := buildTextOptions(c, fd)
	if opts.NumFormat != "" {
		if err := groupagg.ValidateNumFormat(opts.NumFormat); err != nil {
			return err
		}
	}

	args := c.Args().Slice()
	if g := c.String("g"); g != "" {
		args = append([]string{"groupby", g}, args...)
	}
	plan, err := groupagg.ParseProgram(args)
	if err != nil {
		return err
	}

	stats := metrics.NewRunStats()
	addr := firstNonEmpty(c.String("metrics-addr"), fd.MetricsAddr)
	if addr != "" {
		shutdown, err := stats.ServeAddr(addr)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	rs := groupagg.NewRandSource(nil)
	if !planUsesRand(plan) {
		rs = nil
	}

	in, err := inputReader(plan, opts, c.Bool("s"))
	if err != nil {
		return err
	}
	if closer, ok := in.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	driver := groupagg.NewDriver(plan, opts, rs, stats)
	driver.SetErrOutput(os.Stderr)
	return driver.Run(in, os.Stdout)
}

func planUsesRand(plan *groupagg.ProgramPlan) bool {
	for _, op := range plan.Ops {
		if op.Spec.Name == "rand" {
			return true
		}
	}
	return false
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func buildTextOptions(c *cli.Context, fd *config.FileDefaults) *groupagg.TextOptions {
	opts := groupagg.DefaultTextOptions()

	switch {
	case c.Bool("T"):
		opts.InputDelim = groupagg.FieldDelim{Char: '\t'}
	case c.String("t") != "":
		opts.InputDelim = groupagg.FieldDelim{Char: c.String("t")[0]}
	case c.Bool("W"):
		opts.InputDelim = groupagg.FieldDelim{Whitespace: true}
	case fd.FieldDelimiter != "":
		opts.InputDelim = groupagg.FieldDelim{Char: fd.FieldDelimiter[0]}
	}

	if c.Bool("z") {
		opts.EndOfRecord = 0
	}

	opts.HeaderIn = c.Bool("header-in") || c.Bool("H") || fd.HeaderIn
	opts.HeaderOut = c.Bool("header-out") || c.Bool("H") || fd.HeaderOut

	opts.FullLine = c.Bool("f")
	opts.CaseInsensitive = c.Bool("i") || fd.CaseInsensitive
	opts.Sort = c.Bool("s")
	opts.SkipComments = c.Bool("C")
	opts.Strict = !(c.Bool("no-strict") || fd.NoStrict)
	opts.NArm = c.Bool("narm")

	if c.IsSet("filler") {
		opts.Filler = c.String("filler")
	} else if fd.Filler != "" {
		opts.Filler = fd.Filler
	}

	if r := c.Int("R"); r >= 0 {
		opts.Round = r
	} else if fd.Round != nil {
		opts.Round = *fd.Round
	}

	opts.NumFormat = firstNonEmpty(c.String("format"), fd.NumFormat)

	if od := firstNonEmpty(c.String("output-delimiter"), fd.OutputDelimiter); od != "" {
		opts.OutputDelim = od[0]
	}

	return opts
}

// inputReader wraps stdin through the external sort bridge when -s was
// requested, piping input through sort first. When --header-in is also
// set, the header line is read and set aside first so only the data rows
// are sorted, then stitched back in front of the sorted stream.
func inputReader(plan *groupagg.ProgramPlan, opts *groupagg.TextOptions, sortRequested bool) (io.Reader, error) {
	if !sortRequested || plan.Mode == groupagg.ModePerLine {
		return os.Stdin, nil
	}

	br := bufio.NewReader(os.Stdin)
	var header *groupagg.ColumnHeader
	var headerLine []byte
	if opts.HeaderIn {
		line, err := br.ReadString(opts.EndOfRecord)
		if err != nil && line == "" {
			return nil, fmt.Errorf("reading header line: %w", err)
		}
		line = strings.TrimSuffix(line, string(rune(opts.EndOfRecord)))
		headerLine = []byte(line)
		header = groupagg.NewColumnHeaderFromNames(groupagg.SplitRecordFields(headerLine, opts.InputDelim))
	}

	groupIdx := make([]int, len(plan.GroupBy))
	for i, ref := range plan.GroupBy {
		n, err := ref.Resolve(header)
		if err != nil {
			return nil, err
		}
		groupIdx[i] = n
	}

	spec := groupagg.NewSortSpec(groupIdx, opts)
	sorted, err := groupagg.SortReader(br, spec)
	if err != nil {
		return nil, err
	}
	if headerLine == nil {
		return sorted, nil
	}
	prefix := append(append([]byte{}, headerLine...), opts.EndOfRecord)
	return io.MultiReader(bytes.NewReader(prefix), sorted), nil
}

func exitCodeFor(err error) int {
	switch err.(type) {
	case *groupagg.ParseError, *groupagg.PlanError:
		return 1
	case *groupagg.NumericError:
		return 2
	case *groupagg.ShapeError:
		return 3
	case *groupagg.IOError:
		return 4
	default:
		return 1
	}
}

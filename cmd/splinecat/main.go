// splinecat replays a spline edit script and prints the resulting spline.
//
// Usage:
//
//	splinecat [options] <script.yaml>
//
// The script format is described in package internal/script.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/splines/internal/logger"
	"github.com/npillmayer/splines/internal/script"
	"github.com/npillmayer/splines/polygon"
	"go.uber.org/zap"
)

func main() {
	fs := flag.NewFlagSet("splinecat", flag.ExitOnError)
	format := fs.String("o", "knots", "Output format: knots, bezier or footprint")
	plane := fs.String("plane", "XZ", "Projection plane for footprints: XY, XZ or YZ")
	samples := fs.Int("samples", 8, "Samples per segment for footprints")
	level := fs.String("log", "info", "Log level: debug, info, warn or error")
	logFile := fs.String("logfile", "", "Also log to this file, with rotation")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: splinecat [options] <script.yaml>")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	cfg := logger.Config{Level: *level, Console: os.Stderr}
	if *logFile != "" {
		cfg.File = logger.DefaultFileConfig(*logFile)
	}
	log := logger.New(cfg)
	defer log.Sync()

	pl, err := polygon.ParsePlane(*plane)
	if err != nil {
		log.Fatal("bad option", zap.Error(err))
	}
	if err := run(log, fs.Arg(0), script.Format(*format), script.ReportOptions{Plane: pl, Samples: *samples}); err != nil {
		log.Error("replay failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, path string, format script.Format, opts script.ReportOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := script.Parse(f)
	if err != nil {
		return err
	}
	s, err := doc.Build()
	if err != nil {
		return err
	}
	log.Info("spline loaded",
		zap.String("file", path),
		zap.Stringer("basis", s.Basis()),
		zap.Int("knots", s.N()),
		zap.Bool("closed", s.IsCycle()))

	s, steps, err := doc.Apply(s)
	for _, st := range steps {
		log.Debug("edit", zap.Stringer("op", st.Edit), zap.Stringer("changes", st.Changes))
	}
	if err != nil {
		return err
	}
	log.Info("edits replayed", zap.Int("edits", len(steps)))
	return script.Report(os.Stdout, s, format, opts)
}

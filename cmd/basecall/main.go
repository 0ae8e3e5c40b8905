// Command basecall calls bases from four-dye intensity tables.
//
// For every input file it writes <stem>_new_calls.csv, the input table with
// one basecall column appended per cycle, and <stem>_analysis_log.txt with
// the winning dye-to-base map, error and contrast of each cycle.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/basecall/internal/adapters/report"
	service "github.com/okian/basecall/internal/app"
	"github.com/okian/basecall/internal/config"
	"github.com/okian/basecall/internal/domain/model"
	"github.com/okian/basecall/pkg/logger"
	"github.com/okian/basecall/pkg/metrics"
)

// Exit codes.
const (
	exitOK          = 0
	exitFileFailed  = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func usage(fs *flag.FlagSet, w io.Writer) func() {
	return func() {
		fmt.Fprintf(w, `Usage: basecall [flags] FILE...

Calls bases for every cycle of each CSV file and writes the results next to it.
Configuration is read from the YAML file named by %s and from %s* variables.

Flags:
`, config.FileEnv, config.EnvPrefix)
		fs.PrintDefaults()
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("basecall", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs, stderr)
	format := fs.String("format", "", "analysis log format: "+strings.Join(report.Formats(), ", "))
	workers := fs.Int("workers", 0, "files processed at once (default from config)")
	logLevel := fs.String("log-level", "", "debug, info, warn or error (default from config)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return exitUsage
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return exitUsage
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return exitUsage
	}
	if *format != "" {
		cfg.ReportFormat = *format
	}
	if *workers > 0 {
		cfg.WorkerCount = *workers
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if cfg.LogJSON {
		_ = logger.Init(logger.WithWriter(stderr), logger.WithJSON(true))
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithSchema(cfg.Schema()),
		service.WithSuffixes(cfg.CallsSuffix, cfg.LogSuffix),
		service.WithReportFormat(cfg.ReportFormat),
	)
	outcomes, runErr := svc.Run(ctx, paths)

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
		printSummary(stdout, o)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "metrics textfile not written", logger.Error(err))
		}
	}

	switch {
	case ctx.Err() != nil:
		return exitInterrupted
	case runErr != nil:
		fmt.Fprintln(stderr, "basecall:", runErr)
		return exitUsage
	case failed > 0:
		return exitFileFailed
	}
	return exitOK
}

// printSummary writes one line per file.
func printSummary(w io.Writer, o *model.Outcome) {
	switch {
	case o.Failed():
		fmt.Fprintf(w, "%s: FAILED: %v\n", o.Path, o.Err)
	case o.Duplicate():
		fmt.Fprintf(w, "%s: skipped, listed more than once\n", o.Path)
	default:
		parts := make([]string, len(o.Cycles))
		for i, c := range o.Cycles {
			parts[i] = fmt.Sprintf("cycle %s %.2f%% error, contrast %s", c.Name, c.ErrorPercent, report.FormatContrast(c.Contrast))
		}
		fmt.Fprintf(w, "%s: ok (%s) -> %s, %s\n", o.Path, strings.Join(parts, "; "), o.CallsPath, o.LogPath)
	}
}

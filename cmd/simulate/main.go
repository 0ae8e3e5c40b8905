// Command simulate writes a synthetic intensity table with a planted
// dye-to-base map and, with -verify, checks that basecall recovers it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	service "github.com/okian/basecall/internal/app"
	"github.com/okian/basecall/internal/simulate"
	"github.com/okian/basecall/pkg/logger"
)

const (
	exitOK       = 0
	exitMismatch = 1
	exitUsage    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	def := simulate.DefaultConfig()
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cfg simulate.Config
	fs.IntVar(&cfg.Spots, "spots", def.Spots, "spots per table")
	fs.IntVar(&cfg.Cycles, "cycles", def.Cycles, "cycles per row")
	fs.Uint64Var(&cfg.Seed, "seed", def.Seed, "random seed")
	fs.Float64Var(&cfg.Amplitude, "amplitude", def.Amplitude, "dominant intensity scale")
	fs.Float64Var(&cfg.Noise, "noise", def.Noise, "off-channel intensity as a fraction of amplitude")
	fs.Float64Var(&cfg.NoSignalRate, "no-signal", def.NoSignalRate, "fraction of all-zero spots")
	fs.Float64Var(&cfg.MisreadRate, "misread", def.MisreadRate, "fraction of spots with a wrong reference base")
	out := fs.String("out", "", "output CSV path (required)")
	verify := fs.Bool("verify", false, "run the basecaller on the output and check the planted maps")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *out == "" {
		fmt.Fprintln(stderr, "simulate: -out is required")
		return exitUsage
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return exitUsage
	}
	log := logger.Get()

	tbl, err := simulate.WriteFile(ctx, cfg, *out)
	if err != nil {
		fmt.Fprintln(stderr, "simulate:", err)
		return exitUsage
	}
	log.Info(ctx, "synthetic table written", logger.String("path", *out), logger.Int("spots", cfg.Spots), logger.Int("cycles", cfg.Cycles))
	for _, ct := range tbl.Cycles {
		fmt.Fprintf(stdout, "cycle %s: planted %s, expected error %.4f%%\n", ct.Name, ct.Planted, ct.ExpectedErrorPercent())
	}
	if !*verify {
		return exitOK
	}

	svc := service.New(service.WithLogger(log), service.WithWorkerCount(1), service.WithSchema(tbl.Schema()))
	outcomes, err := svc.Run(ctx, []string{*out})
	if err != nil {
		fmt.Fprintln(stderr, "simulate:", err)
		return exitUsage
	}
	if outcomes[0].Failed() {
		fmt.Fprintln(stderr, "simulate:", outcomes[0].Err)
		return exitMismatch
	}
	stats, err := simulate.Verify(ctx, tbl, outcomes[0].Cycles)
	fmt.Fprintf(stdout, "recovered %d of %d cycles (%d spots, %d no-signal, %d misreads)\n",
		stats.Recovered, stats.Cycles, stats.Spots, stats.NoSignal, stats.Misreads)
	if err != nil {
		fmt.Fprintln(stderr, "simulate:", err)
		return exitMismatch
	}
	return exitOK
}

package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/basecall/internal/adapters/dataset"
	"github.com/okian/basecall/internal/adapters/report"
	"github.com/okian/basecall/internal/domain/basecall"
	"github.com/okian/basecall/internal/domain/model"
	"github.com/okian/basecall/pkg/logger"
	"github.com/okian/basecall/pkg/metrics"
)

const outputPerm = 0o644

// pipeline turns one input file into its results table and analysis log.
type pipeline struct {
	schema       dataset.Schema
	callsSuffix  string
	logSuffix    string
	reportFormat string
	logger       logger.Logger
}

// Process implements worker.Processor. A failing cycle aborts the file;
// nothing is written for it.
func (p *pipeline) Process(ctx context.Context, j model.Job) *model.Outcome {
	start := time.Now()
	o := &model.Outcome{JobID: j.ID, Path: j.Path, Index: j.Index}
	log := p.logger.With(logger.String("job_id", j.ID), logger.String("path", j.Path))

	o.Err = p.run(ctx, log, o)
	o.Elapsed = time.Since(start)
	metrics.RecordFile(o.Failed(), o.Elapsed.Seconds())

	if o.Failed() {
		metrics.RecordError("pipeline", errorKind(o.Err))
		log.Error(ctx, "file failed", logger.Error(o.Err), logger.Duration("elapsed", o.Elapsed))
		return o
	}
	log.Info(ctx, "file done",
		logger.String("digest", o.Digest),
		logger.Int("cycles", len(o.Cycles)),
		logger.String("calls", o.CallsPath),
		logger.String("log", o.LogPath),
		logger.Duration("elapsed", o.Elapsed),
	)
	return o
}

func (p *pipeline) run(ctx context.Context, log logger.Logger, o *model.Outcome) error {
	ds, err := dataset.Read(ctx, o.Path, p.schema)
	if err != nil {
		return err
	}
	o.Digest = ds.Digest

	results := make([]*model.CycleResult, 0, len(ds.Cycles))
	for _, c := range ds.Cycles {
		if err := ctx.Err(); err != nil {
			return err
		}
		t0 := time.Now()
		res, err := basecall.Call(c)
		if err != nil {
			return fmt.Errorf("%s: %w", o.Path, err)
		}
		metrics.RecordCycle(res.Name, res.Spots, res.NoSignal, res.ErrorPercent, res.Contrast, time.Since(t0).Seconds())
		log.Debug(ctx, "cycle called",
			logger.String("cycle", res.Name),
			logger.String("map", res.Map.String()),
			logger.Int("spots", res.Spots),
			logger.Int("no_signal", res.NoSignal),
			logger.Float64("error_percent", res.ErrorPercent),
			logger.String("contrast", report.FormatContrast(res.Contrast)),
		)
		results = append(results, res)
	}

	callsPath := dataset.OutputPath(o.Path, p.callsSuffix)
	if err := writeFile(callsPath, func(w io.Writer) error {
		return dataset.WriteCalls(w, ds, results)
	}); err != nil {
		return err
	}
	logPath := dataset.OutputPath(o.Path, p.logSuffix)
	rep := &report.Report{Path: o.Path, Digest: ds.Digest, Cycles: results}
	if err := writeFile(logPath, func(w io.Writer) error {
		return report.Write(p.reportFormat, w, rep)
	}); err != nil {
		_ = os.Remove(callsPath)
		return err
	}

	o.Cycles = results
	o.CallsPath = callsPath
	o.LogPath = logPath
	return nil
}

// writeFile writes through a temp file in the same directory and renames it
// into place, so a failed write never leaves a truncated output.
func writeFile(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := tmp.Chmod(outputPerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

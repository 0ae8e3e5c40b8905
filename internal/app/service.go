// Package service wires the basecaller: it queues input files, runs them
// through the pipeline on a worker pool and collects the outcomes.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/basecall/internal/adapters/dataset"
	jobqueue "github.com/okian/basecall/internal/adapters/mq/queue"
	workerpool "github.com/okian/basecall/internal/adapters/mq/worker"
	"github.com/okian/basecall/internal/adapters/report"
	"github.com/okian/basecall/internal/adapters/repository"
	"github.com/okian/basecall/internal/domain/dedupe"
	"github.com/okian/basecall/internal/domain/model"
	"github.com/okian/basecall/pkg/logger"
	"github.com/okian/basecall/pkg/metrics"
)

const (
	enqueueBackoff  = 5 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Service runs batches of input files.
type Service struct {
	workerCount  int
	queueSize    int
	schema       dataset.Schema
	callsSuffix  string
	logSuffix    string
	reportFormat string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets how many files are processed at once.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of files waiting for a worker.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSchema sets the input column layout.
func WithSchema(schema dataset.Schema) Option {
	return func(s *Service) {
		if len(schema) > 0 {
			s.schema = schema
		}
	}
}

// WithSuffixes sets the suffixes that name the results table and the analysis log.
func WithSuffixes(calls, log string) Option {
	return func(s *Service) {
		if calls != "" {
			s.callsSuffix = calls
		}
		if log != "" {
			s.logSuffix = log
		}
	}
}

// WithReportFormat selects the analysis log format.
func WithReportFormat(format string) Option {
	return func(s *Service) {
		if format != "" {
			s.reportFormat = format
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    1024,
		schema:       dataset.DefaultSchema(),
		callsSuffix:  "_new_calls.csv",
		logSuffix:    "_analysis_log.txt",
		reportFormat: report.FormatText,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every path and returns one outcome per path in argument
// order. A failing file does not stop the others. The returned error is
// non-nil only when the batch could not run at all or ctx ended it early.
func (s *Service) Run(ctx context.Context, paths []string) ([]*model.Outcome, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	if err := s.schema.Validate(); err != nil {
		return nil, err
	}
	if !slices.Contains(report.Formats(), s.reportFormat) {
		return nil, fmt.Errorf("%w: %q", report.ErrUnknownFormat, s.reportFormat)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	runID := uuid.NewString()
	log := s.logger.Named("batch").With(logger.String("run_id", runID))
	log.Info(ctx, "batch started", logger.Int("files", len(paths)), logger.Int("workers", s.workerCount))
	start := time.Now()

	store := repository.NewMemoryStore(repository.WithCapacity(len(paths)))
	deduper := dedupe.NewInMemoryDeduper()
	queue := jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	proc := &pipeline{
		schema:       s.schema,
		callsSuffix:  s.callsSuffix,
		logSuffix:    s.logSuffix,
		reportFormat: s.reportFormat,
		logger:       log,
	}
	pool := workerpool.NewPool(s.workerCount, queue, proc, store)
	pool.Start(ctx)

	jobs := make([]model.Job, len(paths))
	for i, path := range paths {
		jobs[i] = model.Job{ID: uuid.NewString(), Path: path, Index: i}
		if ctx.Err() != nil {
			continue
		}
		s.submit(ctx, log, queue, deduper, store, jobs[i])
	}
	_ = queue.Close()

	if err := pool.Wait(ctx); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		if serr := pool.Shutdown(shutdownCtx); serr != nil {
			log.Warn(ctx, "worker pool did not stop cleanly", logger.Error(serr))
		}
		cancel()
	}

	// Jobs that never reached a worker still get an outcome.
	for _, j := range jobs {
		if _, err := store.Get(ctx, j.ID); errors.Is(err, repository.ErrNotFound) {
			cause := ctx.Err()
			if cause == nil {
				cause = errors.New("not processed")
			}
			_ = store.Put(ctx, &model.Outcome{JobID: j.ID, Path: j.Path, Index: j.Index,
				Err: fmt.Errorf("%s: %w", j.Path, cause)})
		}
	}

	outcomes := store.All(ctx)
	log.Info(ctx, "batch finished",
		logger.Int("files", len(outcomes)),
		logger.Int("failed", len(store.Failed(ctx))),
		logger.Duration("elapsed", time.Since(start)),
	)
	return outcomes, ctx.Err()
}

// submit claims the job's path and queues it, waiting while the queue is full.
func (s *Service) submit(ctx context.Context, log logger.Logger, q jobqueue.Queue, d dedupe.Deduper, store repository.Store, j model.Job) {
	if owner, seen := d.SeenAndRecord(ctx, j.Path, j.ID); seen {
		metrics.RecordDuplicateFile()
		log.Warn(ctx, "duplicate input skipped", logger.String("path", j.Path), logger.String("first_job_id", owner))
		_ = store.Put(ctx, &model.Outcome{JobID: j.ID, Path: j.Path, Index: j.Index, DuplicateOf: owner})
		return
	}

	for {
		err := q.Enqueue(ctx, j)
		if err == nil {
			return
		}
		if errors.Is(err, jobqueue.ErrFull) {
			select {
			case <-time.After(enqueueBackoff):
				continue
			case <-ctx.Done():
				err = ctx.Err()
			}
		}
		d.Unrecord(ctx, j.Path)
		_ = store.Put(ctx, &model.Outcome{JobID: j.ID, Path: j.Path, Index: j.Index,
			Err: fmt.Errorf("%s: %w", j.Path, err)})
		return
	}
}

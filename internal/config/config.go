// Package config defines the basecaller configuration and how it is loaded.
//
// Conventions:
// - New returns a Config holding every default.
// - Load layers a YAML file and BASECALL_ environment variables on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/okian/basecall/internal/adapters/dataset"
	"github.com/okian/basecall/internal/adapters/report"
	"github.com/okian/basecall/internal/domain/model"
)

// CycleConfig locates one cycle in the input rows by zero-based column.
type CycleConfig struct {
	Name      string `koanf:"name"`
	Reference int    `koanf:"reference"`
	Dyes      []int  `koanf:"dyes"`
	// CallsAt is the column the calls column is written in front of; zero
	// means right after the cycle's last field.
	CallsAt int `koanf:"calls_at"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log records to JSON.
	LogJSON bool `koanf:"log_json"`

	// WorkerCount sets how many files are processed at once.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// CallsSuffix and LogSuffix replace the input extension to name the outputs.
	CallsSuffix string `koanf:"calls_suffix"`
	LogSuffix   string `koanf:"log_suffix"`

	// ReportFormat selects the analysis log writer: text or json.
	ReportFormat string `koanf:"report_format"`

	// MetricsFile, when set, receives a Prometheus textfile after the batch.
	MetricsFile string `koanf:"metrics_file"`

	// Cycles is the input layout. Empty means the default two-cycle layout.
	Cycles []CycleConfig `koanf:"cycles"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		WorkerCount:  runtime.NumCPU(),
		QueueSize:    1024,
		CallsSuffix:  "_new_calls.csv",
		LogSuffix:    "_analysis_log.txt",
		ReportFormat: report.FormatText,
	}
}

// Schema converts the configured cycles into a dataset schema.
func (c *Config) Schema() dataset.Schema {
	if len(c.Cycles) == 0 {
		return dataset.DefaultSchema()
	}
	s := make(dataset.Schema, 0, len(c.Cycles))
	for _, cc := range c.Cycles {
		cols := dataset.CycleColumns{Name: cc.Name, Reference: cc.Reference, CallsAt: cc.CallsAt}
		copy(cols.Dyes[:], cc.Dyes)
		s = append(s, cols)
	}
	return s
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	}
	if c.CallsSuffix == "" || c.LogSuffix == "" {
		return fmt.Errorf("%w: output suffixes must not be empty", ErrInvalidConfig)
	}
	if c.CallsSuffix == c.LogSuffix {
		return fmt.Errorf("%w: calls_suffix and log_suffix must differ", ErrInvalidConfig)
	}
	if !slices.Contains(report.Formats(), c.ReportFormat) {
		return fmt.Errorf("%w: unknown report_format %q", ErrInvalidConfig, c.ReportFormat)
	}
	for i, cc := range c.Cycles {
		if len(cc.Dyes) != model.NumDyes {
			return fmt.Errorf("%w: cycle %d needs %d dye columns, got %d", ErrInvalidConfig, i+1, model.NumDyes, len(cc.Dyes))
		}
	}
	if err := c.Schema().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

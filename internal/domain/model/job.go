package model

import "time"

// Job is one input file queued for processing.
type Job struct {
	ID    string // unique per batch
	Path  string
	Index int // position on the command line
}

// Outcome records what happened to a job.
type Outcome struct {
	JobID     string
	Path      string
	Index     int
	Digest    string
	Cycles    []*CycleResult
	CallsPath string
	LogPath   string
	// DuplicateOf is the job id that already handles the same file.
	DuplicateOf string
	Err       error
	Elapsed   time.Duration
}

// Duplicate reports whether the job was skipped as a repeat of another.
func (o *Outcome) Duplicate() bool { return o.DuplicateOf != "" }

// Failed reports whether the job ended with an error.
func (o *Outcome) Failed() bool { return o.Err != nil }

package cmd

import "time"

// Options holds the shared command-line options for the stalewatch CLI.
type Options struct {
	Org            string
	InactiveDays   int
	ActivityMethod string
	ExemptTopics   []string
	ExemptRepos    []string
	Metrics        []string
	Format         string
	OutputDir      string
	Workers        int
	Timeout        time.Duration
	Verbosity      int
	TUI            *bool // nil = auto-detect, true = force TUI, false = disable TUI
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Workers: 4,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithOrg sets the organization to scan.
func WithOrg(org string) Option {
	return func(o *Options) {
		o.Org = org
	}
}

// WithInactiveDays sets the staleness threshold.
func WithInactiveDays(days int) Option {
	return func(o *Options) {
		o.InactiveDays = days
	}
}

// WithFormat sets the output format (table, markdown, json).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithWorkers sets the number of concurrent enrichment workers.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithTimeout bounds the whole run.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}

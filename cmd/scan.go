package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stalewatch/stalewatch/config"
	"github.com/stalewatch/stalewatch/internal/enrich"
	"github.com/stalewatch/stalewatch/internal/github"
	"github.com/stalewatch/stalewatch/internal/log"
	"github.com/stalewatch/stalewatch/internal/model"
	"github.com/stalewatch/stalewatch/internal/output"
	"github.com/stalewatch/stalewatch/internal/report"
	"github.com/stalewatch/stalewatch/internal/scan"
	"github.com/stalewatch/stalewatch/internal/tui"
)

// scanRuntime bundles TUI-related state that's threaded through the scan command.
type scanRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
}

// startTUI initializes and starts the TUI goroutine if TUI mode is enabled.
func (rt *scanRuntime) startTUI() {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		rt.tuiDone <- tui.Run(rt.events)
	}()
}

// close closes the event channel and waits for the TUI to finish.
func (rt *scanRuntime) close() {
	if rt.events == nil {
		return
	}
	close(rt.events)
	rt.events = nil
	if rt.tuiDone != nil {
		<-rt.tuiDone
	}
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *scanRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if rt.events == nil {
		return
	}
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// NewCmdScan creates the scan command.
func NewCmdScan(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for stale repositories (same as root stalewatch)",
		Long: `Streams the repositories of the configured organization, classifies
each against the inactivity threshold, and writes the report artifacts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
	}

	addScanFlags(cmd, opts)
	return cmd
}

// addScanFlags adds the scan-specific flags to a command.
func addScanFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVar(&opts.Org, "org", "", "Organization to scan (default: repos owned by the authenticated user)")
	cmd.Flags().IntVar(&opts.InactiveDays, "inactive-days", 0, "Days without activity before a repo counts as stale")
	cmd.Flags().StringVar(&opts.ActivityMethod, "activity-method", "", "Recency signal: pushed or default_branch_updated")
	cmd.Flags().StringSliceVar(&opts.ExemptTopics, "exempt-topics", nil, "Topics that exempt a repo from the scan")
	cmd.Flags().StringSliceVar(&opts.ExemptRepos, "exempt-repos", nil, "Glob patterns of repo names to exempt (e.g. conf-*)")
	cmd.Flags().StringSliceVar(&opts.Metrics, "metrics", nil, "Extra metrics to fetch per stale repo: release, pr")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, markdown, json)")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Directory to write stale_repos.md and stale_repos.json to")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "Concurrent metric fetches")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Abort the run after this duration (e.g. 10m); partial results are still reported")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")
}

func runScan(cmd *cobra.Command, opts *Options) error {
	// Setup
	rt := setupRuntime(opts)
	rt.startTUI()
	defer rt.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// Configure
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	// Authenticate
	client, err := authenticate(ctx, cfg, rt)
	if err != nil {
		return err
	}

	// Classify
	results, err := runClassification(ctx, client, cfg, rt)
	if err != nil {
		return err
	}

	// Enrich
	runEnrichment(ctx, client, cfg, opts, results, rt)

	// Aggregate and emit
	return emitReport(results, cfg, opts, rt)
}

// setupRuntime decides on TUI mode and initializes logging. Logs are
// discarded while the TUI owns the terminal to avoid interleaving.
func setupRuntime(opts *Options) *scanRuntime {
	useTUI := shouldUseTUI(opts)

	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	return &scanRuntime{useTUI: useTUI}
}

// loadConfig loads the environment/file configuration and lays any
// explicitly-set flags on top.
func loadConfig(cmd *cobra.Command, opts *Options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("org") {
		cfg.Organization = opts.Org
	}
	if flags.Changed("inactive-days") {
		cfg.InactiveDays = opts.InactiveDays
	}
	if flags.Changed("activity-method") {
		cfg.ActivityMethod = model.ActivityMethod(opts.ActivityMethod)
	}
	if flags.Changed("exempt-topics") {
		cfg.ExemptTopics = opts.ExemptTopics
	}
	if flags.Changed("exempt-repos") {
		cfg.ExemptRepos = opts.ExemptRepos
	}
	if flags.Changed("metrics") {
		metrics, err := config.ParseMetrics(opts.Metrics)
		if err != nil {
			return nil, err
		}
		cfg.Metrics = metrics
	}

	if format := output.Format(opts.Format); !format.Valid() {
		return nil, fmt.Errorf("invalid output format %q (valid: table, markdown, json)", opts.Format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// authenticate builds the GitHub client and verifies the credentials
// with one cheap call before the scan starts.
func authenticate(ctx context.Context, cfg *config.Config, rt *scanRuntime) (*github.Client, error) {
	rt.sendEvent(tui.TaskAuth, tui.StatusRunning)

	client, err := github.NewClient(ctx, cfg.Credentials())
	if err != nil {
		rt.sendEvent(tui.TaskAuth, tui.StatusError, tui.WithError(err))
		return nil, err
	}

	// App installations have no user identity to look up.
	if cfg.AppID != 0 {
		log.Info("authenticated as app installation", "app_id", cfg.AppID)
		rt.sendEvent(tui.TaskAuth, tui.StatusComplete, tui.WithMessage("app installation"))
		return client, nil
	}

	user, err := client.AuthenticatedUser(ctx)
	if err != nil {
		rt.sendEvent(tui.TaskAuth, tui.StatusError, tui.WithError(err))
		return nil, err
	}
	log.Info("authenticated", "user", user)
	rt.sendEvent(tui.TaskAuth, tui.StatusComplete, tui.WithMessage(user))

	return client, nil
}

// runClassification streams and classifies the repositories. A transport
// failure is fatal: no report. Cancellation keeps what was classified so
// far so a timed-out run still produces partial output.
func runClassification(ctx context.Context, client *github.Client, cfg *config.Config, rt *scanRuntime) ([]model.StaleRepo, error) {
	rt.sendEvent(tui.TaskScan, tui.StatusRunning)
	target := cfg.Organization
	if target == "" {
		target = "authenticated user"
	}
	log.Info("scanning repositories", "target", target, "threshold_days", cfg.InactiveDays)

	scanner := scan.NewScanner(scan.Options{
		Threshold: cfg.InactiveDays,
		Method:    cfg.ActivityMethod,
		Rules:     cfg.Rules(),
	}, func(scanned, stale int) {
		rt.sendEvent(tui.TaskScan, tui.StatusRunning,
			tui.WithMessage(fmt.Sprintf("%d scanned, %d stale", scanned, stale)))
	})

	source := github.NewSource(client, cfg.Organization, cfg.ActivityMethod)
	results, err := scanner.Run(ctx, source)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("scan interrupted, reporting partial results",
				"classified", len(results), "error", err)
			rt.sendEvent(tui.TaskScan, tui.StatusComplete,
				tui.WithMessage(fmt.Sprintf("%d stale (partial)", len(results))))
			return results, nil
		}
		rt.sendEvent(tui.TaskScan, tui.StatusError, tui.WithError(err))
		return nil, err
	}

	log.Info("scan complete", "stale", len(results))
	rt.sendEvent(tui.TaskScan, tui.StatusComplete,
		tui.WithMessage(fmt.Sprintf("%d stale", len(results))))
	return results, nil
}

// runEnrichment fills in the requested release/PR metrics. Best-effort:
// failures leave fields absent and never abort the run.
func runEnrichment(ctx context.Context, client *github.Client, cfg *config.Config, opts *Options, results []model.StaleRepo, rt *scanRuntime) {
	if !cfg.Metrics.Any() || len(results) == 0 {
		rt.sendEvent(tui.TaskEnrich, tui.StatusSkipped)
		return
	}

	rt.sendEvent(tui.TaskEnrich, tui.StatusRunning)
	total := len(results)

	enricher := enrich.New(client,
		enrich.WithWorkers(opts.Workers),
		enrich.WithProgress(func(completed, total int) {
			rt.sendEvent(tui.TaskEnrich, tui.StatusRunning,
				tui.WithProgress(float64(completed)/float64(total)),
				tui.WithMessage(fmt.Sprintf("%d/%d", completed, total)))
		}))

	enricher.Apply(ctx, results, cfg.Metrics)
	rt.sendEvent(tui.TaskEnrich, tui.StatusComplete,
		tui.WithMessage(fmt.Sprintf("%d/%d", total, total)))
}

// emitReport aggregates the results, writes the artifacts, and renders
// the terminal view.
func emitReport(results []model.StaleRepo, cfg *config.Config, opts *Options, rt *scanRuntime) error {
	rt.sendEvent(tui.TaskReport, tui.StatusRunning)

	rep, err := report.Aggregate(results, report.Options{
		Threshold: cfg.InactiveDays,
		Metrics:   cfg.Metrics,
		SkipEmpty: cfg.SkipEmptyReports,
	})
	if errors.Is(err, report.ErrEmpty) {
		rt.sendEvent(tui.TaskReport, tui.StatusSkipped)
		rt.close()
		fmt.Println("No stale repositories found. Reporting skipped.")
		return nil
	}
	if err != nil {
		rt.sendEvent(tui.TaskReport, tui.StatusError, tui.WithError(err))
		return err
	}

	writer := &output.Writer{
		Dir:             opts.OutputDir,
		WorkflowSummary: cfg.WorkflowSummary,
	}
	if err := writer.Write(rep); err != nil {
		rt.sendEvent(tui.TaskReport, tui.StatusError, tui.WithError(err))
		return err
	}

	rt.sendEvent(tui.TaskReport, tui.StatusComplete, tui.WithCount(len(rep.Results)))
	rt.close()

	formatter := output.NewFormatter(output.Format(opts.Format), cfg.InactiveDays)
	return formatter.Render(rep, os.Stdout)
}

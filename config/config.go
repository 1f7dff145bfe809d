// Package config loads and validates the run configuration.
//
// Configuration is environment-first so the tool drops into CI workflows
// without a config file: a .env file (if present) is folded into the
// environment, an optional .stalewatch.yaml provides base values, and
// environment variables override both.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/stalewatch/stalewatch/internal/duration"
	"github.com/stalewatch/stalewatch/internal/github"
	"github.com/stalewatch/stalewatch/internal/log"
	"github.com/stalewatch/stalewatch/internal/model"
)

// LocalConfigPath is the optional per-directory config file.
const LocalConfigPath = ".stalewatch.yaml"

// Config is the validated run configuration.
type Config struct {
	// Organization to scan. Empty scans the repositories owned by the
	// authenticated user.
	Organization string `yaml:"organization,omitempty"`

	// InactiveDays is the staleness threshold. Required, positive.
	InactiveDays int `yaml:"inactive_days,omitempty"`

	// ActivityMethod selects the recency signal. Defaults to "pushed".
	ActivityMethod model.ActivityMethod `yaml:"activity_method,omitempty"`

	// ExemptTopics lists topics that exempt a repository outright.
	ExemptTopics []string `yaml:"exempt_topics,omitempty"`

	// ExemptRepos lists shell-glob patterns matched against repo names.
	ExemptRepos []string `yaml:"exempt_repos,omitempty"`

	// Metrics selects optional enrichment signals.
	Metrics model.MetricSet `yaml:"-"`

	// SkipEmptyReports suppresses artifacts when nothing is stale.
	// Defaults to true.
	SkipEmptyReports bool `yaml:"skip_empty_reports"`

	// WorkflowSummary appends the markdown report to the GitHub Actions
	// step summary when running inside a workflow.
	WorkflowSummary bool `yaml:"workflow_summary,omitempty"`

	// Auth.
	Token             string `yaml:"-"`
	AppID             int64  `yaml:"-"`
	AppInstallationID int64  `yaml:"-"`
	AppPrivateKey     string `yaml:"-"`
	AppEnterpriseOnly bool   `yaml:"-"`
	EnterpriseURL     string `yaml:"enterprise_url,omitempty"`
}

// yamlConfig mirrors Config for file loading, with the fields that need
// presence detection expressed as pointers.
type yamlConfig struct {
	Organization      string   `yaml:"organization"`
	InactiveDays      *int     `yaml:"inactive_days"`
	ActivityMethod    string   `yaml:"activity_method"`
	ExemptTopics      []string `yaml:"exempt_topics"`
	ExemptRepos       []string `yaml:"exempt_repos"`
	AdditionalMetrics []string `yaml:"additional_metrics"`
	SkipEmptyReports  *bool    `yaml:"skip_empty_reports"`
	WorkflowSummary   *bool    `yaml:"workflow_summary"`
	EnterpriseURL     string   `yaml:"enterprise_url"`
}

// Load assembles the configuration: defaults, then the optional local
// YAML file, then environment variables on top. It does not validate;
// call Validate after applying any CLI flag overrides.
func Load() (*Config, error) {
	// A missing .env is the normal case; only a malformed one is worth
	// surfacing.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("could not load .env file", "error", err)
	}

	cfg := &Config{
		ActivityMethod:   model.MethodPushed,
		SkipEmptyReports: true,
	}

	if err := cfg.applyFile(LocalConfigPath); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc yamlConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Organization != "" {
		c.Organization = fc.Organization
	}
	if fc.InactiveDays != nil {
		c.InactiveDays = *fc.InactiveDays
	}
	if fc.ActivityMethod != "" {
		c.ActivityMethod = model.ActivityMethod(fc.ActivityMethod)
	}
	if len(fc.ExemptTopics) > 0 {
		c.ExemptTopics = fc.ExemptTopics
	}
	if len(fc.ExemptRepos) > 0 {
		c.ExemptRepos = fc.ExemptRepos
	}
	if len(fc.AdditionalMetrics) > 0 {
		metrics, err := ParseMetrics(fc.AdditionalMetrics)
		if err != nil {
			return err
		}
		c.Metrics = metrics
	}
	if fc.SkipEmptyReports != nil {
		c.SkipEmptyReports = *fc.SkipEmptyReports
	}
	if fc.WorkflowSummary != nil {
		c.WorkflowSummary = *fc.WorkflowSummary
	}
	if fc.EnterpriseURL != "" {
		c.EnterpriseURL = fc.EnterpriseURL
	}

	log.Debug("loaded config file", "path", path)
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ORGANIZATION"); v != "" {
		c.Organization = v
	}

	// The threshold accepts a bare day count or a human span like "1y".
	if v := os.Getenv("INACTIVE_DAYS"); v != "" {
		days, err := duration.Days(v)
		if err != nil {
			return fmt.Errorf("INACTIVE_DAYS must be an integer or day span, got %q", v)
		}
		c.InactiveDays = days
	}

	if v := os.Getenv("ACTIVITY_METHOD"); v != "" {
		c.ActivityMethod = model.ActivityMethod(strings.ToLower(v))
	}
	if v, ok := os.LookupEnv("EXEMPT_TOPICS"); ok {
		c.ExemptTopics = splitList(v)
	}
	if v, ok := os.LookupEnv("EXEMPT_REPOS"); ok {
		c.ExemptRepos = splitList(v)
	}
	if v, ok := os.LookupEnv("ADDITIONAL_METRICS"); ok {
		metrics, err := ParseMetrics(splitList(v))
		if err != nil {
			return err
		}
		c.Metrics = metrics
	}

	skip, ok, err := envBool("SKIP_EMPTY_REPORTS")
	if err != nil {
		return err
	}
	if ok {
		c.SkipEmptyReports = skip
	}

	summary, ok, err := envBool("WORKFLOW_SUMMARY_ENABLED")
	if err != nil {
		return err
	}
	if ok {
		c.WorkflowSummary = summary
	}

	c.Token = os.Getenv("GH_TOKEN")
	c.AppPrivateKey = os.Getenv("GH_APP_PRIVATE_KEY")
	if v := os.Getenv("GH_ENTERPRISE_URL"); v != "" {
		c.EnterpriseURL = v
	}

	appID, ok, err := envInt64("GH_APP_ID")
	if err != nil {
		return err
	}
	if ok {
		c.AppID = appID
	}

	instID, ok, err := envInt64("GH_APP_INSTALLATION_ID")
	if err != nil {
		return err
	}
	if ok {
		c.AppInstallationID = instID
	}

	gheOnly, ok, err := envBool("GITHUB_APP_ENTERPRISE_ONLY")
	if err != nil {
		return err
	}
	if ok {
		c.AppEnterpriseOnly = gheOnly
	}

	return nil
}

// Validate fails fast on an unusable configuration, before any API call.
func (c *Config) Validate() error {
	if c.InactiveDays <= 0 {
		return fmt.Errorf("INACTIVE_DAYS must be a positive integer, got %d", c.InactiveDays)
	}
	if !c.ActivityMethod.Valid() {
		return fmt.Errorf("ACTIVITY_METHOD must be %q or %q, got %q",
			model.MethodPushed, model.MethodDefaultBranchUpdated, c.ActivityMethod)
	}

	hasApp := c.AppID != 0 || c.AppInstallationID != 0 || c.AppPrivateKey != ""
	if hasApp {
		if c.AppID == 0 || c.AppInstallationID == 0 || c.AppPrivateKey == "" {
			return fmt.Errorf("incomplete app credentials: GH_APP_ID, GH_APP_INSTALLATION_ID and GH_APP_PRIVATE_KEY must all be set")
		}
	} else if c.Token == "" {
		return fmt.Errorf("no credentials: set GH_TOKEN or the GH_APP_* variables")
	}

	return nil
}

// Rules returns the exemption rules for the scan.
func (c *Config) Rules() model.ExemptionRules {
	return model.ExemptionRules{
		Topics:    c.ExemptTopics,
		RepoGlobs: c.ExemptRepos,
	}
}

// Credentials returns the auth material for the GitHub client.
func (c *Config) Credentials() github.Credentials {
	return github.Credentials{
		Token:             c.Token,
		AppID:             c.AppID,
		AppInstallationID: c.AppInstallationID,
		AppPrivateKey:     []byte(c.AppPrivateKey),
		AppEnterpriseOnly: c.AppEnterpriseOnly,
		EnterpriseURL:     c.EnterpriseURL,
	}
}

// ParseMetrics validates the requested enrichment signals. Unknown names
// are a configuration error, not silently ignored.
func ParseMetrics(names []string) (model.MetricSet, error) {
	var set model.MetricSet
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "release":
			set.Release = true
		case "pr":
			set.PR = true
		case "":
		default:
			return model.MetricSet{}, fmt.Errorf("unknown additional metric %q (valid: release, pr)", name)
		}
	}
	return set, nil
}

// splitList splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envInt64(name string) (int64, bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer, got %q", name, v)
	}
	return n, true, nil
}

func envBool(name string) (bool, bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return false, false, nil
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true, true, nil
	case "false", "0", "no":
		return false, true, nil
	}
	return false, false, fmt.Errorf("%s must be a boolean, got %q", name, v)
}

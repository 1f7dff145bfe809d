package output

import (
	"strings"
	"testing"

	"github.com/stalewatch/stalewatch/internal/model"
	"github.com/stalewatch/stalewatch/internal/report"
	"github.com/stalewatch/stalewatch/internal/scan"
)

func intPtr(v int) *int {
	return &v
}

func stale(name string, days int) model.StaleRepo {
	return model.StaleRepo{
		URL:              "https://github.com/" + name,
		FullName:         name,
		DaysInactive:     days,
		LastActivityDate: "2023-01-25",
		Visibility:       model.VisibilityPublic,
	}
}

func render(t *testing.T, f Formatter, rep *report.Report) string {
	t.Helper()
	var sb strings.Builder
	if err := f.Render(rep, &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func TestTableRendersRows(t *testing.T) {
	rep := &report.Report{
		Results: []model.StaleRepo{
			stale("octo/ancient", 900),
			stale("octo/dusty", 400),
		},
	}

	got := render(t, &TableFormatter{Threshold: 365}, rep)

	if !strings.Contains(got, "Repository") || !strings.Contains(got, "Days Inactive") {
		t.Errorf("header missing:\n%s", got)
	}
	if !strings.Contains(got, "octo/ancient") || !strings.Contains(got, "octo/dusty") {
		t.Errorf("rows missing:\n%s", got)
	}
	if !strings.Contains(got, "2 stale repositories (inactive for 365+ days)") {
		t.Errorf("footer missing:\n%s", got)
	}
	// Metric columns absent when no row carries them.
	if strings.Contains(got, "Last Release") || strings.Contains(got, "Last PR") {
		t.Errorf("unexpected metric columns:\n%s", got)
	}
}

func TestTableMetricColumns(t *testing.T) {
	withRelease := stale("octo/a", 400)
	withRelease.DaysSinceLastRelease = intPtr(42)
	bare := stale("octo/b", 500)

	rep := &report.Report{Results: []model.StaleRepo{bare, withRelease}}
	got := render(t, &TableFormatter{Threshold: 365}, rep)

	if !strings.Contains(got, "Last Release") {
		t.Errorf("release column missing:\n%s", got)
	}
	if strings.Contains(got, "Last PR") {
		t.Errorf("pr column present without data:\n%s", got)
	}
	if !strings.Contains(got, "42") {
		t.Errorf("release value missing:\n%s", got)
	}
}

func TestTableNeverActive(t *testing.T) {
	never := stale("octo/empty", scan.InfiniteDays)
	never.LastActivityDate = ""

	rep := &report.Report{Results: []model.StaleRepo{never}}
	got := render(t, &TableFormatter{Threshold: 365}, rep)

	if !strings.Contains(got, "never") {
		t.Errorf("never-active cell missing:\n%s", got)
	}
	if strings.Contains(got, "2147483647") {
		t.Errorf("sentinel leaked into table:\n%s", got)
	}
}

func TestTableEmpty(t *testing.T) {
	got := render(t, &TableFormatter{Threshold: 365}, &report.Report{})
	if !strings.Contains(got, "No stale repositories found.") {
		t.Errorf("empty message missing:\n%s", got)
	}
}

func TestTruncateToWidth(t *testing.T) {
	if got := truncateToWidth("short", 20); got != "short" {
		t.Errorf("truncateToWidth(short) = %q", got)
	}
	got := truncateToWidth("a-very-long-repository-name", 10)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated string missing ellipsis: %q", got)
	}
}

func TestFormatterSelection(t *testing.T) {
	rep := &report.Report{
		Markdown: "# Inactive Repositories\n",
		JSON:     `[{"url":"https://github.com/octo/a"}]`,
		Results:  []model.StaleRepo{stale("octo/a", 400)},
	}

	tests := []struct {
		format Format
		wantIn string
	}{
		{FormatJSON, `"url":"https://github.com/octo/a"`},
		{FormatMarkdown, "# Inactive Repositories"},
		{FormatTable, "octo/a"},
		{"", "octo/a"}, // default
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := render(t, NewFormatter(tt.format, 365), rep)
			if !strings.Contains(got, tt.wantIn) {
				t.Errorf("Render(%q) = %q, want contains %q", tt.format, got, tt.wantIn)
			}
		})
	}
}

func TestFormatValid(t *testing.T) {
	for _, f := range []Format{FormatTable, FormatJSON, FormatMarkdown, ""} {
		if !f.Valid() {
			t.Errorf("Format(%q).Valid() = false", f)
		}
	}
	if Format("xml").Valid() {
		t.Error("Format(xml).Valid() = true")
	}
}

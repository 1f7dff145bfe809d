package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/stalewatch/stalewatch/internal/model"
	"github.com/stalewatch/stalewatch/internal/report"
	"github.com/stalewatch/stalewatch/internal/scan"
)

const maxRepoColWidth = 50

// TableFormatter formats a report as a terminal table.
type TableFormatter struct {
	// Threshold is echoed in the footer so the numbers have context.
	Threshold int
}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// padRight pads a string with spaces to reach the target visible width.
// The caller supplies the visible width because the string may carry
// ANSI codes or an OSC 8 wrapper that inflate len().
func padRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}

// truncateToWidth truncates a string to fit within maxWidth display
// columns, accounting for wide runes.
func truncateToWidth(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Render outputs the stale repositories as a table.
func (f *TableFormatter) Render(rep *report.Report, w io.Writer) error {
	results := rep.Results
	if len(results) == 0 {
		fmt.Fprintln(w, "No stale repositories found.")
		return nil
	}

	showRelease := anyRelease(results)
	showPR := anyPR(results)

	repoWidth := runewidth.StringWidth("Repository")
	for _, r := range results {
		if width := runewidth.StringWidth(repoLabel(r)); width > repoWidth {
			repoWidth = width
		}
	}
	if repoWidth > maxRepoColWidth {
		repoWidth = maxRepoColWidth
	}

	const (
		colDays       = 13 // "Days Inactive"
		colDate       = 13 // "Last Activity"
		colVisibility = 10
		colMetric     = 12
	)

	// Header
	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s",
		repoWidth, "Repository",
		colDays, "Days Inactive",
		colDate, "Last Activity",
		colVisibility, "Visibility")
	if showRelease {
		fmt.Fprintf(w, "  %-*s", colMetric, "Last Release")
	}
	if showPR {
		fmt.Fprintf(w, "  %-*s", colMetric, "Last PR")
	}
	fmt.Fprintln(w)

	ruleWidth := repoWidth + colDays + colDate + colVisibility + 6
	if showRelease {
		ruleWidth += colMetric + 2
	}
	if showPR {
		ruleWidth += colMetric + 2
	}
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))

	for _, r := range results {
		label := truncateToWidth(repoLabel(r), repoWidth)
		linked := hyperlink(label, r.URL)
		linked = padRight(linked, runewidth.StringWidth(label), repoWidth)

		days := daysDisplay(r.DaysInactive, f.Threshold)
		daysCell := padRight(days.colored, runewidth.StringWidth(days.plain), colDays)

		date := r.LastActivityDate
		if date == "" {
			date = "-"
		}

		fmt.Fprintf(w, "%s  %s  %-*s  %-*s",
			linked,
			daysCell,
			colDate, date,
			colVisibility, r.Visibility)
		if showRelease {
			fmt.Fprintf(w, "  %-*s", colMetric, metricCell(r.DaysSinceLastRelease))
		}
		if showPR {
			fmt.Fprintf(w, "  %-*s", colMetric, metricCell(r.DaysSinceLastPR))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n%d stale repositories (inactive for %d+ days)\n",
		len(results), f.Threshold)

	return nil
}

// daysCellResult carries the colored cell and its plain text for width math.
type daysCellResult struct {
	colored string
	plain   string
}

// daysDisplay renders the inactivity count, coloring the worst offenders.
func daysDisplay(days, threshold int) daysCellResult {
	if days == scan.InfiniteDays {
		return daysCellResult{color.RedString("never"), "never"}
	}

	plain := strconv.Itoa(days)
	if threshold > 0 && days >= 2*threshold {
		return daysCellResult{color.RedString(plain), plain}
	}
	return daysCellResult{color.YellowString(plain), plain}
}

func metricCell(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// repoLabel prefers the owner/name form; the URL is the fallback for
// results built without one.
func repoLabel(r model.StaleRepo) string {
	if r.FullName != "" {
		return r.FullName
	}
	return strings.TrimPrefix(strings.TrimPrefix(r.URL, "https://"), "http://")
}

func anyRelease(results []model.StaleRepo) bool {
	for _, r := range results {
		if r.DaysSinceLastRelease != nil {
			return true
		}
	}
	return false
}

func anyPR(results []model.StaleRepo) bool {
	for _, r := range results {
		if r.DaysSinceLastPR != nil {
			return true
		}
	}
	return false
}

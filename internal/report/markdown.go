package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stalewatch/stalewatch/internal/model"
	"github.com/stalewatch/stalewatch/internal/scan"
)

// renderMarkdown produces the Markdown report: a heading, a threshold
// sentence, and one table row per stale repository. Absent values render
// as empty cells.
func renderMarkdown(results []model.StaleRepo, opts Options) string {
	var sb strings.Builder

	sb.WriteString("# Inactive Repositories\n\n")
	fmt.Fprintf(&sb,
		"The following repos have not had a push event for more than %d days:\n\n",
		opts.Threshold)

	withRelease, withPR := columns(results, opts.Metrics)

	sb.WriteString("| Repository URL | Days Inactive | Last Push Date | Visibility |")
	if withRelease {
		sb.WriteString(" Days Since Last Release |")
	}
	if withPR {
		sb.WriteString(" Days Since Last PR |")
	}
	sb.WriteString("\n| --- | --- | --- | --- |")
	if withRelease {
		sb.WriteString(" --- |")
	}
	if withPR {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	for _, r := range results {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |",
			r.URL, daysCell(r.DaysInactive), r.LastActivityDate, r.Visibility)
		if withRelease {
			fmt.Fprintf(&sb, " %s |", optionalCell(r.DaysSinceLastRelease))
		}
		if withPR {
			fmt.Fprintf(&sb, " %s |", optionalCell(r.DaysSinceLastPR))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func daysCell(days int) string {
	if days == scan.InfiniteDays {
		return "never active"
	}
	return strconv.Itoa(days)
}

func optionalCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stalewatch/stalewatch/internal/log"
	"github.com/stalewatch/stalewatch/internal/report"
)

// Artifact file names, matching what downstream workflow steps expect.
const (
	MarkdownFile = "stale_repos.md"
	JSONFile     = "stale_repos.json"
)

// Writer persists report artifacts and feeds them to GitHub Actions
// when running inside a workflow.
type Writer struct {
	// Dir is the directory artifacts are written to. Empty means the
	// current directory.
	Dir string

	// WorkflowSummary appends the markdown report to the Actions step
	// summary in addition to the output variable.
	WorkflowSummary bool
}

// Write persists both artifacts and, inside a workflow, publishes the
// JSON to the step's output variables.
func (w *Writer) Write(rep *report.Report) error {
	mdPath := w.path(MarkdownFile)
	if err := os.WriteFile(mdPath, []byte(rep.Markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", mdPath, err)
	}
	log.Info("wrote markdown report", "path", mdPath)

	jsonPath := w.path(JSONFile)
	if err := os.WriteFile(jsonPath, []byte(rep.JSON), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}
	log.Info("wrote json report", "path", jsonPath)

	if err := w.publishActionsOutput(rep); err != nil {
		return err
	}

	return nil
}

// publishActionsOutput appends the artifacts to the files GitHub Actions
// designates via GITHUB_OUTPUT and GITHUB_STEP_SUMMARY. Outside a
// workflow neither variable is set and this is a no-op.
func (w *Writer) publishActionsOutput(rep *report.Report) error {
	if path := os.Getenv("GITHUB_OUTPUT"); path != "" {
		line := fmt.Sprintf("inactiveRepos=%s\n", rep.JSON)
		if err := appendFile(path, line); err != nil {
			return fmt.Errorf("failed to write workflow output: %w", err)
		}
		log.Debug("published inactiveRepos output variable")
	}

	if !w.WorkflowSummary {
		return nil
	}
	if path := os.Getenv("GITHUB_STEP_SUMMARY"); path != "" {
		if err := appendFile(path, rep.Markdown); err != nil {
			return fmt.Errorf("failed to write workflow summary: %w", err)
		}
		log.Debug("published workflow step summary")
	}

	return nil
}

func (w *Writer) path(name string) string {
	if w.Dir == "" {
		return name
	}
	return filepath.Join(w.Dir, name)
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}

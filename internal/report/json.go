package report

import (
	"encoding/json"
	"fmt"

	"github.com/stalewatch/stalewatch/internal/model"
)

// renderJSON produces the JSON artifact: an array of result objects in the
// same order as the Markdown table. Optional fields are omitted rather
// than emitted as null. An empty result set serializes as [].
func renderJSON(results []model.StaleRepo) (string, error) {
	if results == nil {
		results = []model.StaleRepo{}
	}

	data, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

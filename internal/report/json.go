package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/teftimov/IOHanalyzer/internal/experiment"
)

// WriteJSON writes the result as indented JSON, stamped with the producing
// environment. Non-finite values in the result marshal as null.
func WriteJSON(r *experiment.Result, path string) error {
	data, err := json.MarshalIndent(Report{Environment: Environment(), Result: r}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/teftimov/IOHanalyzer/internal/experiment"
	"github.com/teftimov/IOHanalyzer/internal/report"
)

// reportFlags control where an analysis result lands: the table always goes
// to stdout, and --json/--output add a JSON report.
type reportFlags struct {
	JSON   bool
	Output string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.JSON, "json", false, "also write the report as JSON")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "JSON report path (implies --json)")
}

// write renders the table and, when requested, the JSON report.
func (f *reportFlags) write(res *experiment.Result, w io.Writer) error {
	report.WriteTable(res, w)
	return f.writeJSON(res, w)
}

// writeJSON writes the JSON report when --json or --output asked for one.
// Without an explicit path the report lands under the user's config
// directory. Commands that render their own table call this directly.
func (f *reportFlags) writeJSON(res *experiment.Result, w io.Writer) error {
	if !f.JSON && f.Output == "" {
		return nil
	}

	path := f.Output
	if path == "" {
		dir := filepath.Join(xdg.ConfigHome, "ioha", "reports")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
		name := fmt.Sprintf("%s-%s.json", slug(res.Name), res.Generated.Format("20060102-150405"))
		path = filepath.Join(dir, name)
	}

	if err := report.WriteJSON(res, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "report written to %s\n", path)
	return nil
}

// slug turns an experiment name into a filename fragment.
func slug(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

// withSpinner runs fn behind a terminal spinner. The spinner writes to
// stderr so tables on stdout stay clean.
func withSpinner(suffix string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn()
}

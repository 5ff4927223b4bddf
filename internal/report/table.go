package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/teftimov/IOHanalyzer/internal/experiment"
)

// WriteTable renders every analysis present in the result as aligned text
// tables. Sections the experiment did not request are skipped.
func WriteTable(r *experiment.Result, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== IOHanalyzer Report ===\n")
	fmt.Fprintf(tw, "\n--- Experiment: %s ---\n\n", r.Name)

	if r.ECDF != nil {
		writeECDFTable(tw, r.ECDF)
	}
	if r.AUC != nil {
		writeAUCTable(tw, r.AUC)
	}
	if r.Pairwise != nil {
		writePairwiseTable(tw, r.Pairwise)
	}
	if r.Ranking != nil {
		writeStandingsTable(tw, r.Ranking)
	}

	tw.Flush()
}

func writeECDFTable(tw *tabwriter.Writer, r *experiment.ECDFResult) {
	fmt.Fprintf(tw, "Empirical CDF Summary (%s)\n\n", r.Orientation)

	header := []string{"Algorithm", "Points", "N", "Censored", "Success", "Min", "Max"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, c := range r.Curves {
		row := []string{
			c.Algorithm,
			fmt.Sprintf("%d", len(c.X)),
			fmt.Sprintf("%d", c.N),
			fmt.Sprintf("%d", c.Censored),
			fmtFloat(successRate(c.N, c.Censored)),
			fmtFloat(float64(c.Min)),
			fmtFloat(float64(c.Max)),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeAUCTable(tw *tabwriter.Writer, r *experiment.AUCResult) {
	fmt.Fprintf(tw, "Normalized Area Under the ECDF (%g to %g)\n\n", r.From, r.To)

	header := []string{"Algorithm", "AUC"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, e := range r.Entries {
		fmt.Fprintln(tw, strings.Join([]string{e.Algorithm, fmtFloat(e.AUC)}, "\t"))
	}

	fmt.Fprintln(tw)
}

func writePairwiseTable(tw *tabwriter.Writer, r *experiment.PairwiseResult) {
	fmt.Fprintf(tw, "Pairwise Comparisons (Holm-adjusted p, row better than column)\n\n")

	header := append([]string{"Algorithm"}, r.Algorithms...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for i, alg := range r.Algorithms {
		row := []string{alg}
		for j := range r.Algorithms {
			row = append(row, fmtFloat(float64(r.P[i][j])))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeStandingsTable(tw *tabwriter.Writer, r *experiment.RankingResult) {
	fmt.Fprintf(tw, "Glicko-2 Standings (%d rounds, %d games)\n\n", r.Rounds, r.Games)

	header := []string{"Rank", "Algorithm", "Rating", "Deviation", "Volatility", "W", "T", "L"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for i, s := range r.Standings {
		row := []string{
			fmt.Sprintf("%d", i+1),
			s.Algorithm,
			fmtFloat(s.Rating),
			fmtFloat(s.Deviation),
			fmtFloat(s.Volatility),
			fmt.Sprintf("%d", s.Wins),
			fmt.Sprintf("%d", s.Ties),
			fmt.Sprintf("%d", s.Losses),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func successRate(n, censored int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return float64(n-censored) / float64(n)
}

func fmtFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

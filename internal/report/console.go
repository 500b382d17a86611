// Package report renders rankings to the console and to spreadsheets.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

// TopCount is how many entries the human-readable tables show. Rankings are
// persisted in full; the cut applies to display only.
const TopCount = 25

const separator = "------------------------"

// WriteValueTable prints the top n of the value ranking. Values are platinum
// amounts, so each line carries the "p" suffix.
func WriteValueTable(w io.Writer, ranking domain.Ranking, n int) {
	fmt.Fprintf(w, "Top %d Relics by value:\n%s\n", n, separator)
	for _, e := range ranking.Top(n) {
		fmt.Fprintf(w, "%s: %.2fp\n", e.Name, e.Metric)
	}
}

// WriteProfitTable prints the top n of the profit ranking. Metrics are
// unitless value/price ratios.
func WriteProfitTable(w io.Writer, ranking domain.Ranking, n int) {
	fmt.Fprintf(w, "Top %d Relics by profit (EV/Price):\n%s\n", n, separator)
	for _, e := range ranking.Top(n) {
		fmt.Fprintf(w, "%s: %.2f\n", e.Name, e.Metric)
	}
}

// WriteRankings prints both tables separated by a blank line.
func WriteRankings(w io.Writer, value, profit domain.Ranking, n int) {
	WriteValueTable(w, value, n)
	fmt.Fprint(w, "\n")
	WriteProfitTable(w, profit, n)
}

// FormatEntry renders a single ranking entry the way the tables do.
func FormatEntry(e domain.RankedRelic, platinum bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %.2f", e.Name, e.Metric)
	if platinum {
		b.WriteString("p")
	}
	return b.String()
}

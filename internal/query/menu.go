// Package query implements the interactive ranking lookup menu.
package query

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/alanyoungcy/relicbot/internal/domain"
	"github.com/alanyoungcy/relicbot/internal/report"
)

// maxSuggestions caps how many fuzzy matches a missed lookup offers.
const maxSuggestions = 5

// Menu drives a line-oriented loop over the persisted rankings: pick a
// ranking, then look relics up by name or list the top entries. Input that
// matches nothing re-prompts instead of erroring, so a typo never ends the
// session.
type Menu struct {
	value  domain.Ranking
	profit domain.Ranking
	top    int
	in     io.Reader
	out    io.Writer
}

// NewMenu creates a menu over the given rankings, reading commands from in
// and writing results to out. top sizes the "top" listing; values below 1
// fall back to the report default.
func NewMenu(value, profit domain.Ranking, top int, in io.Reader, out io.Writer) *Menu {
	if top < 1 {
		top = report.TopCount
	}
	return &Menu{
		value:  value,
		profit: profit,
		top:    top,
		in:     in,
		out:    out,
	}
}

// Run loops until the user quits or the input stream ends. The outer loop
// selects a ranking, the inner one answers lookups against it.
func (m *Menu) Run() error {
	scanner := bufio.NewScanner(m.in)

	for {
		fmt.Fprint(m.out, "Select ranking (value | profit), or quit: ")
		line, ok := m.readLine(scanner)
		if !ok {
			return scanner.Err()
		}

		var ranking domain.Ranking
		var platinum bool
		switch line {
		case "quit", "exit":
			return nil
		case "value":
			ranking = m.value
			platinum = true
		case "profit":
			ranking = m.profit
		default:
			fmt.Fprintf(m.out, "Unrecognized choice %q.\n", line)
			continue
		}

		if done := m.lookupLoop(scanner, ranking, platinum); done {
			return scanner.Err()
		}
	}
}

// lookupLoop answers queries against one ranking until the user backs out.
// It reports true when the whole menu should end.
func (m *Menu) lookupLoop(scanner *bufio.Scanner, ranking domain.Ranking, platinum bool) bool {
	for {
		fmt.Fprint(m.out, "Relic name, top, back, or quit: ")
		line, ok := m.readLine(scanner)
		if !ok {
			return true
		}

		switch line {
		case "quit", "exit":
			return true
		case "back":
			return false
		case "top":
			if platinum {
				report.WriteValueTable(m.out, ranking, m.top)
			} else {
				report.WriteProfitTable(m.out, ranking, m.top)
			}
			continue
		}

		if entry, found := ranking.Lookup(line); found {
			fmt.Fprintln(m.out, report.FormatEntry(entry, platinum))
			continue
		}
		m.suggest(ranking, line)
	}
}

// suggest offers the closest relic names to a query that matched nothing.
func (m *Menu) suggest(ranking domain.Ranking, input string) {
	matches := fuzzy.Find(input, ranking.Names())
	if len(matches) == 0 {
		fmt.Fprintf(m.out, "No relic named %q.\n", input)
		return
	}
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	fmt.Fprintf(m.out, "No relic named %q. Did you mean:\n", input)
	for _, match := range matches {
		fmt.Fprintf(m.out, "  %s\n", match.Str)
	}
}

// readLine reads the next trimmed, lowercased command. Names survive because
// lookups are case-insensitive anyway. ok is false once input is exhausted.
func (m *Menu) readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(scanner.Text())), true
}

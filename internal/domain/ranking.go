package domain

import "strings"

// RankedRelic pairs a relic display name with one ranking metric: expected
// value in the value ranking, value/price ratio in the profit ranking.
type RankedRelic struct {
	Name   string  `json:"relicName"`
	Metric float64 `json:"metric"`
}

// Ranking is a full-length sequence of ranked relics, ordered descending by
// metric with name as tiebreak so cycles reproduce byte-identically.
type Ranking []RankedRelic

// Top returns the first n entries, or the whole ranking when it is shorter.
func (r Ranking) Top(n int) Ranking {
	if n > len(r) {
		n = len(r)
	}
	return r[:n]
}

// Lookup finds an entry by case-insensitive exact name match.
func (r Ranking) Lookup(name string) (RankedRelic, bool) {
	for _, e := range r {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return RankedRelic{}, false
}

// Names returns every relic name in ranking order.
func (r Ranking) Names() []string {
	names := make([]string, len(r))
	for i, e := range r {
		names[i] = e.Name
	}
	return names
}

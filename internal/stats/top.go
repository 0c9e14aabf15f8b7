package stats

import (
	"sort"
)

// Confusion is a key typed in place of the expected one.
type Confusion struct {
	Actual string
	Count  int
}

// TopConfusions returns the n most frequent confusions.
func TopConfusions(counts map[string]int, n int) []Confusion {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	items := make([]Confusion, 0, len(counts))
	for actual, count := range counts {
		items = append(items, Confusion{Actual: actual, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Actual < items[j].Actual
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

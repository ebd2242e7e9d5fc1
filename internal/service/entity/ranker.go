// internal/service/entity/ranker.go

package entity

import (
	"fmt"
	"sort"
	"strings"

	"socialpulse/internal/domain/pulse"
)

// TopN is the number of entities returned by the top entities view
const TopN = 10

// Rank counts entity mentions across all lists and returns the n most frequent,
// highest count first. Equal counts keep the order in which the entities were
// first seen.
func Rank(lists [][]string, n int) ([]pulse.EntityCount, error) {
	counts := make(map[string]int)
	var order []string

	for _, list := range lists {
		for _, e := range list {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if _, seen := counts[e]; !seen {
				order = append(order, e)
			}
			counts[e]++
		}
	}

	if len(order) == 0 {
		return nil, fmt.Errorf("no entities found: %w", pulse.ErrEmptyResult)
	}

	ranked := make([]pulse.EntityCount, len(order))
	for i, e := range order {
		ranked[i] = pulse.EntityCount{Entity: e, Count: counts[e]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// ExtractAll runs the extractor over every text, one list per text
func ExtractAll(extractor pulse.EntityExtractor, texts []string) [][]string {
	lists := make([][]string, len(texts))
	for i, text := range texts {
		lists[i] = extractor.Extract(text)
	}
	return lists
}

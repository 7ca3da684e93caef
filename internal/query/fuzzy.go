package query

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/worldbox/worldbox/internal/store"
)

// Fuzzy matching defaults: only candidates scoring at or above the
// threshold (0-100 scale) are kept, best first, capped at the limit.
const (
	DefaultFuzzyThreshold = 90
	DefaultFuzzyLimit     = 50
)

// FuzzyMatch keeps the rows whose string cell best matches value, using the
// default threshold and candidate cap.
func FuzzyMatch(rows []store.Row, column string, value any) []store.Row {
	return FuzzyMatchWith(DefaultFuzzyThreshold, DefaultFuzzyLimit)(rows, column, value)
}

// FuzzyMatchWith builds a fuzzy filter with an explicit score cutoff and
// candidate cap.
func FuzzyMatchWith(threshold, limit int) Filter {
	return func(rows []store.Row, column string, value any) []store.Row {
		needle, _ := value.(string)
		type scored struct {
			index int
			score int
		}
		candidates := make([]scored, 0, len(rows))
		for i, row := range rows {
			cell, ok := row[column].(string)
			if !ok {
				continue
			}
			if s := fuzzyScore(needle, cell); s >= threshold {
				candidates = append(candidates, scored{index: i, score: s})
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		out := make([]store.Row, len(candidates))
		for i, c := range candidates {
			out[i] = rows[c.index]
		}
		return out
	}
}

var diceMetric = metrics.NewSorensenDice()

// fuzzyScore rates the similarity of two strings on a 0-100 scale. Both the
// processed strings and their token-sorted forms are compared so word order
// does not dominate the score.
func fuzzyScore(a, b string) int {
	pa, pb := processString(a), processString(b)
	if pa == "" || pb == "" {
		return 0
	}
	if pa == pb {
		return 100
	}
	plain := strutil.Similarity(pa, pb, diceMetric)
	sorted := strutil.Similarity(tokenSort(pa), tokenSort(pb), diceMetric)
	return int(max(plain, sorted) * 100)
}

// processString lowercases and strips non-alphanumeric runes, collapsing
// them to single spaces.
func processString(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenSort(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

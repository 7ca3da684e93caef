package apps

import (
	"github.com/worldbox/worldbox/internal/query"
	"github.com/worldbox/worldbox/internal/recurrence"
)

// Tunables applied by the configuration layer. Defaults mirror the
// package constants so an unconfigured process behaves identically.
var (
	fuzzyFilter    = query.FuzzyMatch
	maxOccurrences = recurrence.DefaultMaxOccurrences
)

// Configure sets the fuzzy-search cutoff and candidate cap used by name
// and subject lookups, and the expansion cap for unbounded repeat rules.
// It returns a restore function so tests can scope the override.
func Configure(fuzzyThreshold, fuzzyLimit, occurrences int) func() {
	prevFilter, prevCap := fuzzyFilter, maxOccurrences
	fuzzyFilter = query.FuzzyMatchWith(fuzzyThreshold, fuzzyLimit)
	maxOccurrences = occurrences
	return func() {
		fuzzyFilter = prevFilter
		maxOccurrences = prevCap
	}
}

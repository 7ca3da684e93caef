// Package recurrence expands repeat rules into concrete event start
// times. Rules support the four calendar frequencies plus positional
// refinements (weekday, month day, month of year, set position), explicit
// excluded dates, and a one-off included date that always survives the
// other constraints.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency names how often an event repeats.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// DefaultMaxOccurrences caps the expansion of rules that carry neither an
// end date nor a repetition count.
const DefaultMaxOccurrences = 23

// Spec describes a repeat rule. Exactly one of RecursUntil and
// MaxRepetitions may be set; when neither is, the expansion is capped.
type Spec struct {
	Frequency Frequency
	// Period is the interval between occurrences in units of Frequency.
	// Zero means every unit.
	Period int

	RecursUntil    *time.Time
	MaxRepetitions *int

	// WhichWeekday holds ISO weekday numbers, 1 (Monday) through 7.
	WhichWeekday []int
	// WhichMonthDay holds days of the month, 1 through 31.
	WhichMonthDay []int
	// WhichYearMonth holds months of the year, 1 through 12.
	WhichYearMonth []int
	// BySetPos selects occurrences by position within each interval,
	// counting from 1, or from the end with negative values.
	BySetPos []int

	// ExcludeOccurrence removes specific start times from the expansion.
	ExcludeOccurrence []time.Time
	// OccurrenceOnDate adds a start time that is included regardless of
	// the rule's other constraints.
	OccurrenceOnDate *time.Time
}

var frequencies = map[Frequency]rrule.Frequency{
	Daily:   rrule.DAILY,
	Weekly:  rrule.WEEKLY,
	Monthly: rrule.MONTHLY,
	Yearly:  rrule.YEARLY,
}

// isoWeekdays maps ISO weekday numbers to rrule weekdays.
var isoWeekdays = map[int]rrule.Weekday{
	1: rrule.MO,
	2: rrule.TU,
	3: rrule.WE,
	4: rrule.TH,
	5: rrule.FR,
	6: rrule.SA,
	7: rrule.SU,
}

// Validate checks the rule for contradictions.
func (s Spec) Validate() error {
	if _, ok := frequencies[s.Frequency]; !ok {
		return fmt.Errorf("unknown frequency %q", s.Frequency)
	}
	if s.RecursUntil != nil && s.MaxRepetitions != nil {
		return fmt.Errorf("recurs_until and max_repetitions are mutually exclusive")
	}
	for _, wd := range s.WhichWeekday {
		if _, ok := isoWeekdays[wd]; !ok {
			return fmt.Errorf("invalid weekday %d", wd)
		}
	}
	return nil
}

// Occurrences expands the rule into concrete start times beginning at
// start, capping unbounded rules at DefaultMaxOccurrences. The result is
// sorted ascending and deduplicated.
func (s Spec) Occurrences(start time.Time) ([]time.Time, error) {
	return s.OccurrencesCapped(start, DefaultMaxOccurrences)
}

// OccurrencesCapped is Occurrences with an explicit cap on rules that
// have neither an end date nor a repetition count.
func (s Spec) OccurrencesCapped(start time.Time, maxOccurrences int) ([]time.Time, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	opt := rrule.ROption{
		Freq:    frequencies[s.Frequency],
		Dtstart: start.UTC(),
	}
	if s.Period > 0 {
		opt.Interval = s.Period
	}
	bounded := false
	if s.RecursUntil != nil {
		opt.Until = s.RecursUntil.UTC()
		bounded = true
	}
	if s.MaxRepetitions != nil {
		opt.Count = *s.MaxRepetitions
		bounded = true
	}
	for _, wd := range s.WhichWeekday {
		opt.Byweekday = append(opt.Byweekday, isoWeekdays[wd])
	}
	opt.Bymonthday = append(opt.Bymonthday, s.WhichMonthDay...)
	opt.Bymonth = append(opt.Bymonth, s.WhichYearMonth...)
	opt.Bysetpos = append(opt.Bysetpos, s.BySetPos...)

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}

	set := rrule.Set{}
	set.RRule(rule)
	for _, ex := range s.ExcludeOccurrence {
		set.ExDate(ex.UTC())
	}
	if s.OccurrenceOnDate != nil {
		set.RDate(s.OccurrenceOnDate.UTC())
	}

	limit := maxOccurrences
	if bounded {
		// An explicit bound replaces the safety cap. The included date
		// can push the total one past any Count bound.
		limit = -1
	}

	var out []time.Time
	next := set.Iterator()
	for t, ok := next(); ok; t, ok = next() {
		out = append(out, t)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

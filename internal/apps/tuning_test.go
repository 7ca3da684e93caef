package apps

import (
	"errors"
	"testing"
	"time"

	"github.com/worldbox/worldbox/internal/query"
	"github.com/worldbox/worldbox/internal/recurrence"
	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"
)

func TestConfigure_FuzzyThreshold(t *testing.T) {
	scopedWorld(t)
	if err := AddEmployees([]Employee{
		{EmployeeID: "e1", Name: "Alexandra", Team: "engineering", Role: "Team Member"},
	}); err != nil {
		t.Fatalf("AddEmployees() error = %v", err)
	}

	// "Alex" scores well below the default cutoff of 90.
	_, err := FindEmployee("Alex")
	var notFound *store.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("FindEmployee(Alex) error = %v, want NotFoundError at the default threshold", err)
	}

	t.Cleanup(Configure(50, query.DefaultFuzzyLimit, recurrence.DefaultMaxOccurrences))
	got, err := FindEmployee("Alex")
	if err != nil {
		t.Fatalf("FindEmployee(Alex) error = %v after lowering the threshold", err)
	}
	if len(got) != 1 || got[0].Name != "Alexandra" {
		t.Errorf("FindEmployee(Alex) = %v, want Alexandra", got)
	}
}

func TestConfigure_RecurrenceCap(t *testing.T) {
	scopedWorld(t)
	t.Cleanup(Configure(query.DefaultFuzzyThreshold, query.DefaultFuzzyLimit, 5))

	if _, err := AddEvent(Event{
		EventID:  "standup",
		Subject:  "Standup",
		StartsAt: Now().Add(24 * time.Hour),
		Repeats:  &recurrence.Spec{Frequency: recurrence.Daily},
	}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	rows := world.Current().GetDatabase(schema.UserCalendar)
	if len(rows) != 5 {
		t.Errorf("unbounded series expanded to %d rows, want the configured cap of 5", len(rows))
	}
}

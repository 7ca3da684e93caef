package apps

import (
	"errors"
	"testing"
	"time"

	"github.com/worldbox/worldbox/internal/recurrence"
	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"
)

func TestAddEvent_Defaults(t *testing.T) {
	scopedWorld(t)

	starts := Now().Add(24 * time.Hour)
	added, err := AddEvent(Event{Subject: "Design review", StartsAt: starts})
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if added.EventID == "" {
		t.Error("AddEvent() did not assign an event id")
	}
	if !added.EndsAt.Equal(starts.Add(defaultEventDuration)) {
		t.Errorf("AddEvent() ends at %v, want start plus default duration", added.EndsAt)
	}

	stored, err := GetEvent(added.EventID)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if stored.Subject != "Design review" {
		t.Errorf("stored subject = %q, want %q", stored.Subject, "Design review")
	}
}

func TestAddEvent_RequiresStart(t *testing.T) {
	scopedWorld(t)
	_, err := AddEvent(Event{Subject: "No time"})
	var validation *store.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("AddEvent() error = %v, want ValidationError", err)
	}
}

func TestAddEvent_UpdateReplaces(t *testing.T) {
	scopedWorld(t)
	starts := Now().Add(24 * time.Hour)

	first, err := AddEvent(Event{EventID: "evt-1", Subject: "Standup", StartsAt: starts})
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	_, err = AddEvent(Event{EventID: first.EventID, Subject: "Standup (moved)", StartsAt: starts.Add(time.Hour)})
	if err != nil {
		t.Fatalf("AddEvent() update error = %v", err)
	}

	rows := world.Current().GetDatabase(schema.UserCalendar)
	if len(rows) != 1 {
		t.Fatalf("calendar holds %d rows after update, want 1", len(rows))
	}
	stored, err := GetEvent(first.EventID)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if stored.Subject != "Standup (moved)" {
		t.Errorf("stored subject = %q, want the updated one", stored.Subject)
	}
}

func TestAddEvent_RecurrenceExpansion(t *testing.T) {
	scopedWorld(t)
	starts := Now().Add(24 * time.Hour)
	count := 4

	added, err := AddEvent(Event{
		EventID:  "series",
		Subject:  "Weekly sync",
		StartsAt: starts,
		Repeats:  &recurrence.Spec{Frequency: recurrence.Weekly, MaxRepetitions: &count},
	})
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	rows := world.Current().GetDatabase(schema.UserCalendar)
	if len(rows) != count {
		t.Fatalf("calendar holds %d rows, want one per occurrence (%d)", len(rows), count)
	}

	instances := 0
	for _, row := range rows {
		e := eventFromRow(row)
		if e.EventID == added.EventID {
			if e.Repeats == nil {
				t.Error("series head lost its repeat rule")
			}
			continue
		}
		if e.RecurrentEventID != added.EventID {
			t.Errorf("instance %s does not link back to the series", e.EventID)
		}
		if e.OriginalStartsAt.IsZero() {
			t.Errorf("instance %s has no original start", e.EventID)
		}
		instances++
	}
	if instances != count-1 {
		t.Errorf("found %d linked instances, want %d", instances, count-1)
	}
}

func TestGetEventInstances(t *testing.T) {
	scopedWorld(t)
	starts := Now().Add(24 * time.Hour)
	count := 3

	if _, err := AddEvent(Event{
		EventID:  "series",
		Subject:  "Weekly sync",
		StartsAt: starts,
		Repeats:  &recurrence.Spec{Frequency: recurrence.Weekly, MaxRepetitions: &count},
	}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	instances, err := GetEventInstances("series")
	if err != nil {
		t.Fatalf("GetEventInstances() error = %v", err)
	}
	if len(instances) != count {
		t.Fatalf("GetEventInstances() returned %d events, want %d", len(instances), count)
	}
	if instances[0].EventID != "series" {
		t.Errorf("first instance = %q, want the series head", instances[0].EventID)
	}
	for i := 1; i < len(instances); i++ {
		if !instances[i].StartsAt.After(instances[i-1].StartsAt) {
			t.Errorf("instances not ordered by start at index %d", i)
		}
	}

	if _, err := GetEventInstances("missing"); err == nil {
		t.Error("GetEventInstances(missing) did not error")
	}
}

func TestDeleteEvent(t *testing.T) {
	scopedWorld(t)
	starts := Now().Add(24 * time.Hour)
	count := 3

	if _, err := AddEvent(Event{
		EventID:  "series",
		Subject:  "Weekly sync",
		StartsAt: starts,
		Repeats:  &recurrence.Spec{Frequency: recurrence.Weekly, MaxRepetitions: &count},
	}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	if err := DeleteEvent("series"); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if rows := world.Current().GetDatabase(schema.UserCalendar); len(rows) != 0 {
		t.Errorf("calendar holds %d rows after series delete, want 0", len(rows))
	}

	err := DeleteEvent("missing")
	var notFound *store.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("DeleteEvent(missing) error = %v, want NotFoundError", err)
	}
}

func TestFindEvents_SplitsOnNow(t *testing.T) {
	scopedWorld(t)
	seedDirectory(t)

	past := Now().Add(-48 * time.Hour)
	future := Now().Add(48 * time.Hour)
	if _, err := AddEvent(Event{Subject: "Retro", StartsAt: past}); err != nil {
		t.Fatalf("AddEvent(past) error = %v", err)
	}
	if _, err := AddEvent(Event{Subject: "Planning", StartsAt: future}); err != nil {
		t.Fatalf("AddEvent(future) error = %v", err)
	}

	upcoming, err := FindEvents(EventFilter{Subject: "Planning"})
	if err != nil {
		t.Fatalf("FindEvents() error = %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Subject != "Planning" {
		t.Errorf("FindEvents() = %v, want only the future event", upcoming)
	}

	finished, err := FindPastEvents(EventFilter{Subject: "Retro"})
	if err != nil {
		t.Fatalf("FindPastEvents() error = %v", err)
	}
	if len(finished) != 1 || finished[0].Subject != "Retro" {
		t.Errorf("FindPastEvents() = %v, want only the past event", finished)
	}
}

func TestFindEvents_ByAttendee(t *testing.T) {
	scopedWorld(t)
	seedDirectory(t)

	future := Now().Add(48 * time.Hour)
	if _, err := AddEvent(Event{
		Subject:   "One on one",
		StartsAt:  future,
		Attendees: []string{"usr", "mgr"},
	}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if _, err := AddEvent(Event{
		Subject:   "Finance review",
		StartsAt:  future,
		Attendees: []string{"ceo"},
	}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	// Attendees are given by name and resolved through the directory.
	got, err := FindEvents(EventFilter{Attendees: []string{"Horace"}})
	if err != nil {
		t.Fatalf("FindEvents() error = %v", err)
	}
	if len(got) != 1 || got[0].Subject != "One on one" {
		t.Errorf("FindEvents(attendee Horace) = %v, want the one on one", got)
	}
}

func TestFindEvents_EmptyAttendeeListMeansNoAttendees(t *testing.T) {
	scopedWorld(t)

	future := Now().Add(24 * time.Hour)
	if _, err := AddEvent(Event{Subject: "Solo focus", StartsAt: future}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if _, err := AddEvent(Event{
		Subject:   "Crowded",
		StartsAt:  future,
		Attendees: []string{"e1", "e2"},
	}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	// An empty list is a real criterion: only attendee-less events match.
	got, err := FindEvents(EventFilter{Attendees: []string{}})
	if err != nil {
		t.Fatalf("FindEvents() error = %v", err)
	}
	if len(got) != 1 || got[0].Subject != "Solo focus" {
		t.Errorf("FindEvents(no attendees) = %v, want only the solo event", got)
	}
}

func TestFindEvents_ReturnsSeriesHeadOnly(t *testing.T) {
	scopedWorld(t)
	starts := Now().Add(24 * time.Hour)
	count := 4

	if _, err := AddEvent(Event{
		EventID:  "series",
		Subject:  "Weekly sync",
		StartsAt: starts,
		Repeats:  &recurrence.Spec{Frequency: recurrence.Weekly, MaxRepetitions: &count},
	}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	got, err := FindEvents(EventFilter{Subject: "Weekly sync"})
	if err != nil {
		t.Fatalf("FindEvents() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("FindEvents() returned %d events for a series, want the head only", len(got))
	}
	if got[0].EventID != "series" || got[0].Repeats == nil {
		t.Errorf("FindEvents() = %v, want the series head with its repeat rule", got[0])
	}
}

func TestFindEvents_SortedByStart(t *testing.T) {
	scopedWorld(t)

	later := Now().Add(72 * time.Hour)
	sooner := Now().Add(24 * time.Hour)
	if _, err := AddEvent(Event{Subject: "Later", StartsAt: later}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if _, err := AddEvent(Event{Subject: "Sooner", StartsAt: sooner}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	got, err := FindEvents(EventFilter{From: Now()})
	if err != nil {
		t.Fatalf("FindEvents() error = %v", err)
	}
	if len(got) != 2 || got[0].Subject != "Sooner" {
		t.Errorf("FindEvents() order = %v, want earliest first", got)
	}
}

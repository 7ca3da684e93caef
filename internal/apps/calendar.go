package apps

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/worldbox/worldbox/internal/query"
	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"
)

// defaultEventDuration applies when an event is added without an end time.
const defaultEventDuration = 30 * time.Minute

// AddEvent writes an event to the user calendar and returns it with all
// defaults filled in. Re-adding an event with an existing identifier
// replaces the stored event and any recurrence instances it spawned. A
// recurring event is stored as one row per occurrence: the first carries
// the repeat rule under the caller's identifier, the rest link back to it.
func AddEvent(e Event) (Event, error) {
	if e.StartsAt.IsZero() {
		return Event{}, &store.ValidationError{
			Namespace: schema.UserCalendar,
			Reason:    "event requires a start time",
		}
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.EndsAt.IsZero() {
		e.EndsAt = e.StartsAt.Add(defaultEventDuration)
	}
	if !e.EndsAt.After(e.StartsAt) {
		return Event{}, &store.ValidationError{
			Namespace: schema.UserCalendar,
			Reason:    fmt.Sprintf("event %q ends before it starts", e.EventID),
		}
	}

	// Update semantics: drop any previous version first.
	if err := DeleteEvent(e.EventID); err != nil {
		var notFound *store.NotFoundError
		if !errors.As(err, &notFound) {
			return Event{}, err
		}
	}

	rows := []store.Row{}
	if e.Repeats != nil {
		occurrences, err := e.Repeats.OccurrencesCapped(e.StartsAt, maxOccurrences)
		if err != nil {
			return Event{}, err
		}
		duration := e.EndsAt.Sub(e.StartsAt)
		for i, start := range occurrences {
			instance := e
			instance.StartsAt = start
			instance.EndsAt = start.Add(duration)
			instance.OriginalStartsAt = start
			if i > 0 {
				instance.EventID = uuid.NewString()
				instance.RecurrentEventID = e.EventID
				instance.Repeats = nil
			}
			rows = append(rows, instance.row())
		}
	} else {
		rows = append(rows, e.row())
	}

	if err := world.Current().AddToDatabase(schema.UserCalendar, rows); err != nil {
		return Event{}, err
	}
	return e, nil
}

// DeleteEvent removes an event and, when it heads a recurring series,
// every instance spawned from it. A missing identifier is an error; a
// series head without surviving instances is not.
func DeleteEvent(eventID string) error {
	ctx := world.Current()
	err := ctx.RemoveFromDatabase(schema.UserCalendar, func(row store.Row) bool {
		return row["event_id"] == eventID
	})
	if err != nil {
		return err
	}
	err = ctx.RemoveFromDatabase(schema.UserCalendar, func(row store.Row) bool {
		return row["recurrent_event_id"] == eventID
	})
	var notFound *store.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

// GetEvent returns the user-calendar event with the given identifier.
func GetEvent(eventID string) (Event, error) {
	matched, err := query.Apply(currentRows(schema.UserCalendar), []query.Criterion{
		{Column: "event_id", Value: eventID, Filter: query.ExactMatch},
	})
	if err != nil {
		return Event{}, err
	}
	if len(matched) == 0 {
		return Event{}, &store.NotFoundError{
			Namespace: schema.UserCalendar,
			Detail:    fmt.Sprintf("no event with id %q", eventID),
		}
	}
	return eventFromRow(matched[0]), nil
}

// GetEventInstances returns the occurrences spawned by a recurring
// event, the series head first, ordered by start time.
func GetEventInstances(eventID string) ([]Event, error) {
	head, err := GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	instances := []Event{head}
	for _, row := range currentRows(schema.UserCalendar) {
		if row["recurrent_event_id"] == eventID {
			instances = append(instances, eventFromRow(row))
		}
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].StartsAt.Before(instances[j].StartsAt)
	})
	return instances, nil
}

// EventFilter narrows a calendar search. Zero-valued fields are ignored.
// Attendees are given as names and resolved against the directory.
type EventFilter struct {
	Subject   string
	Attendees []string
	From      time.Time
	To        time.Time
}

// FindEvents returns ongoing and upcoming user-calendar events matching
// the filter, earliest first.
func FindEvents(f EventFilter) ([]Event, error) {
	events, err := findEvents(f)
	if err != nil {
		return nil, err
	}
	upcoming := events[:0]
	for _, e := range events {
		if !e.EndsAt.Before(Now()) {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming, nil
}

// FindPastEvents returns user-calendar events that finished before the
// current time, earliest first.
func FindPastEvents(f EventFilter) ([]Event, error) {
	events, err := findEvents(f)
	if err != nil {
		return nil, err
	}
	past := events[:0]
	for _, e := range events {
		if e.EndsAt.Before(Now()) {
			past = append(past, e)
		}
	}
	return past, nil
}

func findEvents(f EventFilter) ([]Event, error) {
	// Only series heads and one-off events are searched; occurrence rows
	// are reachable through GetEventInstances.
	criteria := []query.Criterion{
		{Column: "recurrent_event_id", Value: nil, Filter: query.ExactMatch},
		{Column: "subject", Value: query.NotGiven, Filter: fuzzyFilter},
		{Column: "attendees", Value: query.NotGiven, Filter: attendeesContain},
		{Column: "starts_at", Value: query.NotGiven, Filter: query.GtEq},
		{Column: "starts_at", Value: query.NotGiven, Filter: query.LtEq},
	}
	if f.Subject != "" {
		criteria[1].Value = f.Subject
	}
	if f.Attendees != nil {
		ids, err := resolveAttendees(f.Attendees)
		if err != nil {
			return nil, err
		}
		criteria[2].Value = ids
	}
	if !f.From.IsZero() {
		criteria[3].Value = f.From
	}
	if !f.To.IsZero() {
		criteria[4].Value = f.To
	}

	rows, err := query.Apply(currentRows(schema.UserCalendar), criteria)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, eventFromRow(row))
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events, nil
}

// attendeesContain keeps rows whose attendee list includes every given
// employee identifier. An explicitly empty list means "events with no
// attendees" and keeps only rows whose attendee cell is null or empty.
func attendeesContain(rows []store.Row, column string, value any) []store.Row {
	wanted, ok := value.([]any)
	if !ok {
		if ids, isStrings := value.([]string); isStrings {
			wanted = make([]any, len(ids))
			for i, id := range ids {
				wanted[i] = id
			}
		}
	}
	if len(wanted) == 0 {
		var out []store.Row
		for _, row := range rows {
			if items, ok := row[column].([]any); !ok || len(items) == 0 {
				out = append(out, row)
			}
		}
		return out
	}
	var out []store.Row
	for _, row := range rows {
		attendees, ok := row[column].([]any)
		if !ok {
			continue
		}
		present := make(map[any]bool, len(attendees))
		for _, a := range attendees {
			present[a] = true
		}
		all := true
		for _, w := range wanted {
			if !present[w] {
				all = false
				break
			}
		}
		if all {
			out = append(out, row)
		}
	}
	return out
}

// resolveAttendees maps attendee names to employee identifiers, taking
// the best directory match for each name. Names are sorted first so the
// same set always resolves in the same order.
func resolveAttendees(names []string) ([]string, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	ids := make([]string, 0, len(sorted))
	for _, name := range sorted {
		matches, err := FindEmployee(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve attendee %q: %w", name, err)
		}
		ids = append(ids, matches[0].EmployeeID)
	}
	return ids, nil
}

package apps

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"
)

// AddEmployees writes directory rows for the given employees. Identifiers
// are generated when absent.
func AddEmployees(employees []Employee) error {
	rows := make([]store.Row, 0, len(employees))
	for _, e := range employees {
		if e.EmployeeID == "" {
			e.EmployeeID = uuid.NewString()
		}
		rows = append(rows, e.row())
	}
	return world.Current().AddToDatabase(schema.Employees, rows)
}

// SeedUserCalendar populates the user calendar, applying the same
// defaulting rules as interactive event creation.
func SeedUserCalendar(events []Event) error {
	for _, e := range events {
		if _, err := AddEvent(e); err != nil {
			return fmt.Errorf("failed to seed user calendar: %w", err)
		}
	}
	return nil
}

// SeedEmployeeCalendar populates a shared calendar owned by the given
// employee. The owner always appears among the attendees of their own
// events.
func SeedEmployeeCalendar(ownerID string, events []Event) error {
	if _, err := GetEmployeeProfile(ownerID); err != nil {
		return err
	}
	rows := make([]store.Row, 0, len(events))
	for _, e := range events {
		if e.EventID == "" {
			e.EventID = uuid.NewString()
		}
		if e.EndsAt.IsZero() {
			e.EndsAt = e.StartsAt.Add(defaultEventDuration)
		}
		if !slices.Contains(e.Attendees, ownerID) {
			e.Attendees = append([]string{ownerID}, e.Attendees...)
		}
		row := e.row()
		row["calendar_id"] = ownerID
		rows = append(rows, row)
	}
	return world.Current().AddToDatabase(schema.SharedCalendars, rows)
}

// SeedVacations records planned absences.
func SeedVacations(vacations []Vacation) error {
	rows := make([]store.Row, 0, len(vacations))
	for _, v := range vacations {
		if _, err := GetEmployeeProfile(v.EmployeeID); err != nil {
			return err
		}
		rows = append(rows, store.Row{
			"employee_id": v.EmployeeID,
			"starts":      v.Starts,
			"ends":        v.Ends,
		})
	}
	return world.Current().AddToDatabase(schema.EmployeeVacations, rows)
}

// SeedConferenceRooms registers bookable rooms. Identifiers are generated
// when absent.
func SeedConferenceRooms(rooms []ConferenceRoom) error {
	rows := make([]store.Row, 0, len(rooms))
	for _, r := range rooms {
		if r.RoomID == "" {
			r.RoomID = uuid.NewString()
		}
		rows = append(rows, r.row())
	}
	return world.Current().AddToDatabase(schema.ConferenceRooms, rows)
}

// SeedCalendarVisibility records which employees may view the user's
// calendar.
func SeedCalendarVisibility(employeeIDs []string) error {
	return world.Current().AddToDatabase(schema.UserMetadata, []store.Row{{
		"calendar_visible_to": stringList(employeeIDs),
	}})
}

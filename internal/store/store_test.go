package store

import (
	"errors"
	"testing"
	"time"

	"github.com/worldbox/worldbox/internal/schema"
)

func TestStore_HeadguardInvisible(t *testing.T) {
	s := New()
	for _, ns := range schema.All() {
		if got := len(s.Get(ns)); got != 0 {
			t.Errorf("Get(%s) returned %d rows, want 0", ns, got)
		}
		if got := len(s.GetWithHeadguard(ns)); got != 1 {
			t.Errorf("GetWithHeadguard(%s) returned %d rows, want 1", ns, got)
		}
	}
}

func TestStore_InsertMonotonicity(t *testing.T) {
	s := New()
	first := []Row{
		{"room_id": "r1", "room_name": "Alpha", "capacity": 10},
		{"room_id": "r2", "room_name": "Beta", "capacity": 4},
	}
	if err := s.Insert(schema.ConferenceRooms, first); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	second := []Row{
		{"room_id": "r3", "room_name": "Gamma", "capacity": 2},
	}
	if err := s.Insert(schema.ConferenceRooms, second); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	rows := s.Get(schema.ConferenceRooms)
	if len(rows) != 3 {
		t.Fatalf("Get() returned %d rows, want 3", len(rows))
	}
	wantOrder := []string{"r1", "r2", "r3"}
	for i, want := range wantOrder {
		if rows[i]["room_id"] != want {
			t.Errorf("rows[%d] room_id = %v, want %v", i, rows[i]["room_id"], want)
		}
	}
}

func TestStore_InsertValidation(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
	}{
		{
			name: "unknown column",
			rows: []Row{{"room_id": "r1", "floor": 3}},
		},
		{
			name: "all null row",
			rows: []Row{{"room_id": nil, "room_name": nil, "capacity": nil}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.Insert(schema.ConferenceRooms, tt.rows)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Errorf("Insert() error = %v, want ValidationError", err)
			}
		})
	}

	t.Run("invalid enum variant", func(t *testing.T) {
		s := New()
		err := s.Insert(schema.Employees, []Row{{
			"employee_id": "e1",
			"name":        "Horace",
			"team":        "skunkworks",
		}})
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("Insert() error = %v, want ValidationError", err)
		}
	})
}

func TestStore_InsertAllOrNothing(t *testing.T) {
	s := New()
	rows := []Row{
		{"room_id": "r1", "room_name": "Alpha", "capacity": 10},
		{"room_id": "r2", "bogus": true},
	}
	if err := s.Insert(schema.ConferenceRooms, rows); err == nil {
		t.Fatal("Insert() expected error, got nil")
	}
	if got := len(s.Get(schema.ConferenceRooms)); got != 0 {
		t.Errorf("Get() returned %d rows after failed insert, want 0", got)
	}
}

func TestStore_DeleteProtectsHeadguard(t *testing.T) {
	s := New()
	if err := s.Insert(schema.ConferenceRooms, []Row{
		{"room_id": "r1", "room_name": "Alpha", "capacity": 10},
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// A predicate matching everything must still leave the headguard.
	if err := s.Delete(schema.ConferenceRooms, func(Row) bool { return true }); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := len(s.Get(schema.ConferenceRooms)); got != 0 {
		t.Errorf("Get() returned %d rows, want 0", got)
	}
	if got := len(s.GetWithHeadguard(schema.ConferenceRooms)); got != 1 {
		t.Errorf("GetWithHeadguard() returned %d rows, want 1", got)
	}
}

func TestStore_DeleteNoMatch(t *testing.T) {
	s := New()
	err := s.Delete(schema.ConferenceRooms, func(Row) bool { return true })
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Delete() error = %v, want NotFoundError", err)
	}
}

func TestStore_DeleteProtectedNamespace(t *testing.T) {
	s := New()
	err := s.Delete(schema.Sandbox, func(Row) bool { return true })
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Delete() error = %v, want ValidationError", err)
	}
}

func TestStore_MaxMessageIndex(t *testing.T) {
	s := New()
	if got := s.MaxMessageIndex(); got != -1 {
		t.Errorf("MaxMessageIndex() = %d, want -1", got)
	}
}

func TestStore_NormalizesTemporalValues(t *testing.T) {
	s := New()
	joined := time.Date(2023, time.July, 23, 14, 30, 0, 0, time.UTC)
	if err := s.Insert(schema.Employees, []Row{{
		"employee_id": "e1",
		"name":        "Horace",
		"joined_date": joined,
	}}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	rows := s.Get(schema.Employees)
	got, ok := rows[0]["joined_date"].(time.Time)
	if !ok {
		t.Fatalf("joined_date = %T, want time.Time", rows[0]["joined_date"])
	}
	want := time.Date(2023, time.July, 23, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("joined_date = %v, want %v (date columns truncate to midnight)", got, want)
	}
}

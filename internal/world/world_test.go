package world

import (
	"testing"
	"time"

	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := NewContext()
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	return ctx
}

func TestSnapshot_RoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	joined := time.Date(2023, time.July, 23, 0, 0, 0, 0, time.UTC)
	starts := time.Date(2024, time.August, 10, 9, 0, 0, 0, time.UTC)

	if err := ctx.AddToDatabase(schema.Employees, []store.Row{{
		"employee_id": "e1",
		"name":        "Horace",
		"team":        "engineering",
		"joined_date": joined,
		"reports":     []any{"e2", "e3"},
		"is_user":     true,
	}}); err != nil {
		t.Fatalf("AddToDatabase(employees) error = %v", err)
	}
	if err := ctx.AddToDatabase(schema.ConferenceRoomBookings, []store.Row{{
		"room_id":    "r1",
		"booking_id": "b1",
		"start":      starts,
		"end":        starts.Add(2 * time.Hour),
	}}); err != nil {
		t.Fatalf("AddToDatabase(bookings) error = %v", err)
	}

	restored := newTestContext(t)
	if err := restored.FromSnapshot(ctx.Snapshot()); err != nil {
		t.Fatalf("FromSnapshot() error = %v", err)
	}

	for _, ns := range schema.All() {
		want := ctx.GetDatabaseWithHeadguard(ns)
		got := restored.GetDatabaseWithHeadguard(ns)
		if len(got) != len(want) {
			t.Fatalf("%s: restored %d rows, want %d", ns, len(got), len(want))
		}
		for i := range want {
			if !store.RowsEqual(got[i], want[i]) {
				t.Errorf("%s row %d = %v, want %v", ns, i, got[i], want[i])
			}
		}
	}

	// Temporal cells must come back as times, not strings.
	rows := restored.GetDatabase(schema.Employees)
	if _, ok := rows[0]["joined_date"].(time.Time); !ok {
		t.Errorf("joined_date restored as %T, want time.Time", rows[0]["joined_date"])
	}
}

func TestSnapshot_EncodesTemporalValues(t *testing.T) {
	ctx := newTestContext(t)
	starts := time.Date(2024, time.August, 10, 9, 0, 0, 0, time.UTC)
	if err := ctx.AddToDatabase(schema.ConferenceRoomBookings, []store.Row{{
		"room_id":    "r1",
		"booking_id": "b1",
		"start":      starts,
		"end":        starts.Add(time.Hour),
	}}); err != nil {
		t.Fatalf("AddToDatabase() error = %v", err)
	}

	snap := ctx.Snapshot()
	rows := snap[schema.ConferenceRoomBookings]
	// Row 0 is the headguard.
	if got := rows[1]["start"]; got != "2024-08-10T09:00:00" {
		t.Errorf("encoded start = %v, want 2024-08-10T09:00:00", got)
	}
}

func TestScoped_RestoresOnPanic(t *testing.T) {
	outer := newTestContext(t)
	SetCurrent(outer)

	inner := newTestContext(t)
	func() {
		defer func() { recover() }()
		defer Scoped(inner)()
		panic("boom")
	}()

	if Current() != outer {
		t.Error("Scoped() did not restore the previous context after a panic")
	}
}

func TestScoped_Nesting(t *testing.T) {
	a := newTestContext(t)
	b := newTestContext(t)
	SetCurrent(a)

	restore := Scoped(b)
	if Current() != b {
		t.Error("Scoped() did not activate the new context")
	}
	restore()
	if Current() != a {
		t.Error("Scoped() restore did not reinstate the previous context")
	}
}

func TestCurrent_LazyDefault(t *testing.T) {
	SetCurrent(nil)
	ctx := Current()
	if ctx == nil {
		t.Fatal("Current() = nil, want a lazily created context")
	}
	if Current() != ctx {
		t.Error("Current() created a second context on repeat call")
	}
}

func TestAddEncoded_UnknownColumn(t *testing.T) {
	ctx := newTestContext(t)
	err := ctx.AddEncoded(schema.ConferenceRooms, []store.Row{
		{"room_id": "r1", "floor": 3},
	})
	if err == nil {
		t.Fatal("AddEncoded() accepted a row with an unknown column")
	}
}

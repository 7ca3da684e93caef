package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"
)

func populatedContext(t *testing.T) *world.Context {
	t.Helper()
	ctx, err := world.NewContext()
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	if err := ctx.AddToDatabase(schema.ConferenceRooms, []store.Row{
		{"room_id": "r1", "room_name": "Alpha", "capacity": 10},
	}); err != nil {
		t.Fatalf("AddToDatabase() error = %v", err)
	}
	return ctx
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := populatedContext(t)
	path := filepath.Join(t.TempDir(), "world.json")

	if err := Save(path, ctx.Snapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	restored, err := world.NewContext()
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	if err := restored.FromSnapshot(loaded); err != nil {
		t.Fatalf("FromSnapshot() error = %v", err)
	}
	rows := restored.GetDatabase(schema.ConferenceRooms)
	if len(rows) != 1 || rows[0]["room_name"] != "Alpha" {
		t.Errorf("restored rooms = %v, want the Alpha room", rows)
	}
}

func TestDiff(t *testing.T) {
	a := populatedContext(t)
	b := populatedContext(t)

	if diffs := Diff(a.Snapshot(), b.Snapshot()); len(diffs) != 0 {
		t.Errorf("Diff() of identical worlds = %v, want empty", diffs)
	}

	if err := b.AddToDatabase(schema.ConferenceRooms, []store.Row{
		{"room_id": "r2", "room_name": "Beta", "capacity": 4},
	}); err != nil {
		t.Fatalf("AddToDatabase() error = %v", err)
	}

	diffs := Diff(a.Snapshot(), b.Snapshot())
	if len(diffs) != 1 {
		t.Fatalf("Diff() = %v, want one differing table", diffs)
	}
	d := diffs[0]
	if d.Namespace != schema.ConferenceRooms {
		t.Errorf("differing namespace = %s, want conference_rooms", d.Namespace)
	}
	if len(d.Missing) != 0 || len(d.Extra) != 1 {
		t.Errorf("Diff() missing=%d extra=%d, want 0 and 1", len(d.Missing), len(d.Extra))
	}
}

func TestArchive_SaveLoadList(t *testing.T) {
	ctx := populatedContext(t)
	path := filepath.Join(t.TempDir(), "runs.db")

	archive, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive() error = %v", err)
	}
	defer archive.Close()

	initial := ctx.Snapshot()
	if err := ctx.AddToDatabase(schema.ConferenceRooms, []store.Row{
		{"room_id": "r2", "room_name": "Beta", "capacity": 4},
	}); err != nil {
		t.Fatalf("AddToDatabase() error = %v", err)
	}
	final := ctx.Snapshot()

	id, err := archive.SaveRun("booking-scenario", initial, final)
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	run, err := archive.LoadRun(id)
	if err != nil {
		t.Fatalf("LoadRun() error = %v", err)
	}
	if run.Name != "booking-scenario" {
		t.Errorf("run name = %q, want booking-scenario", run.Name)
	}
	if diffs := Diff(run.Initial, run.Final); len(diffs) != 1 {
		t.Errorf("archived run diff = %v, want the one inserted row", diffs)
	}

	runs, err := archive.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Errorf("ListRuns() = %v, want the saved run", runs)
	}
	if runs[0].CreatedAt.After(time.Now().Add(time.Minute)) {
		t.Errorf("run created_at = %v, want a recent timestamp", runs[0].CreatedAt)
	}

	if _, err := archive.LoadRun(999); err == nil {
		t.Error("LoadRun(999) = nil error, want not-found")
	}
}

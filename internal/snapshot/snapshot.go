// Package snapshot persists world state images: single JSON files for
// fixtures, and a sqlite archive for keeping the before/after states of
// many runs side by side.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"
)

// Save writes a snapshot to path as indented JSON.
func Save(path string, snap world.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot previously written by Save.
func Load(path string) (world.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Decode parses a JSON snapshot.
func Decode(data []byte) (world.Snapshot, error) {
	var snap world.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// Encode renders a snapshot as compact JSON.
func Encode(snap world.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// TableDiff lists the rows present on only one side of a comparison for
// one namespace.
type TableDiff struct {
	Namespace schema.Namespace `json:"namespace"`
	Missing   []store.Row      `json:"missing,omitempty"`
	Extra     []store.Row      `json:"extra,omitempty"`
}

// Diff compares two snapshots table by table. Missing rows are in a but
// not b; extra rows are in b but not a. An empty result means the
// snapshots are equal.
func Diff(a, b world.Snapshot) []TableDiff {
	var diffs []TableDiff
	for _, ns := range schema.All() {
		d := TableDiff{Namespace: ns}
		d.Missing = subtract(a[ns], b[ns])
		d.Extra = subtract(b[ns], a[ns])
		if len(d.Missing) > 0 || len(d.Extra) > 0 {
			diffs = append(diffs, d)
		}
	}
	return diffs
}

// subtract returns the rows of a that have no equal row in b, consuming
// each b row at most once so duplicates are counted.
func subtract(a, b []store.Row) []store.Row {
	used := make([]bool, len(b))
	var out []store.Row
	for _, row := range a {
		found := false
		for i, other := range b {
			if !used[i] && store.RowsEqual(row, other) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			out = append(out, row)
		}
	}
	return out
}

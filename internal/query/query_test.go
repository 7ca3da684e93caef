package query

import (
	"testing"
	"time"

	"github.com/worldbox/worldbox/internal/store"
)

func sampleRows() []store.Row {
	return []store.Row{
		{"name": "Horace", "team": "engineering", "capacity": int64(10), "manager": "m1"},
		{"name": "Mafalda", "team": "finance", "capacity": int64(4), "manager": nil},
		{"name": "Jeeves", "team": "engineering", "capacity": int64(2), "manager": "m1"},
	}
}

func TestApply_AllCriteriaOmitted(t *testing.T) {
	_, err := Apply(sampleRows(), []Criterion{
		{Column: "name", Value: NotGiven, Filter: ExactMatch},
	})
	if err == nil {
		t.Fatal("Apply() expected error when every criterion is omitted")
	}
}

func TestApply_NilMatchesNull(t *testing.T) {
	got, err := Apply(sampleRows(), []Criterion{
		{Column: "manager", Value: nil, Filter: ExactMatch},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(got) != 1 || got[0]["name"] != "Mafalda" {
		t.Errorf("Apply() = %v, want the single row with a null manager", got)
	}
}

func TestApply_CombinesCriteria(t *testing.T) {
	got, err := Apply(sampleRows(), []Criterion{
		{Column: "team", Value: "engineering", Filter: ExactMatch},
		{Column: "manager", Value: "m1", Filter: ExactMatch},
		{Column: "name", Value: NotGiven, Filter: ExactMatch},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Apply() returned %d rows, want 2", len(got))
	}
	for _, row := range got {
		if row["team"] != "engineering" || row["manager"] != "m1" {
			t.Errorf("Apply() kept row %v that fails a criterion", row)
		}
	}
}

func TestCompareFilters(t *testing.T) {
	earlier := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2024, time.June, 25, 0, 0, 0, 0, time.UTC)
	rows := []store.Row{
		{"starts": earlier},
		{"starts": later},
	}

	tests := []struct {
		name   string
		filter Filter
		value  any
		want   int
	}{
		{"gteq keeps later", GtEq, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), 1},
		{"lteq keeps earlier", LtEq, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), 1},
		{"gteq keeps all on boundary", GtEq, earlier, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter(rows, "starts", tt.value)
			if len(got) != tt.want {
				t.Errorf("filter kept %d rows, want %d", len(got), tt.want)
			}
		})
	}
}

func TestIsMember(t *testing.T) {
	got := IsMember(sampleRows(), "name", []string{"Horace", "Jeeves"})
	if len(got) != 2 {
		t.Errorf("IsMember() kept %d rows, want 2", len(got))
	}
}

func TestContains(t *testing.T) {
	got := Contains(sampleRows(), "name", "ora")
	if len(got) != 1 || got[0]["name"] != "Horace" {
		t.Errorf("Contains() = %v, want the Horace row", got)
	}
}

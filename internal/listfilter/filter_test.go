package listfilter

import (
	"fmt"
	"math/rand"
	"testing"
)

type row struct {
	ref    string
	guest  string
	room   string
	status string
}

var rowFilter = Filter[row]{
	Category: func(r row) string { return r.status },
	Fields: []func(row) string{
		func(r row) string { return r.ref },
		func(r row) string { return r.guest },
		func(r row) string { return r.room },
	},
}

var statuses = []string{"pending", "confirmed", "cancelled", "completed", "no_show"}

func sampleRows() []row {
	return []row{
		{"BK-1001", "Ama Mensah", "Deluxe King", "confirmed"},
		{"BK-1002", "Kofi Boateng", "Standard Twin", "pending"},
		{"BK-1003", "", "Deluxe King", "cancelled"},
		{"BK-1004", "Esi Owusu", "Family Suite", "completed"},
		{"BK-1005", "Yaw Darko", "", "no_show"},
		{"BK-1006", "Abena Asante", "Standard Twin", "confirmed"},
	}
}

func TestApply(t *testing.T) {
	rows := sampleRows()

	tests := []struct {
		name     string
		category string
		term     string
		wantRefs []string
	}{
		{"all no term", All, "", []string{"BK-1001", "BK-1002", "BK-1003", "BK-1004", "BK-1005", "BK-1006"}},
		{"empty category means all", "", "", []string{"BK-1001", "BK-1002", "BK-1003", "BK-1004", "BK-1005", "BK-1006"}},
		{"confirmed", "confirmed", "", []string{"BK-1001", "BK-1006"}},
		{"search guest case insensitive", All, "AMA", []string{"BK-1001"}},
		{"search room", All, "twin", []string{"BK-1002", "BK-1006"}},
		{"search reference", All, "bk-1004", []string{"BK-1004"}},
		{"category and search", "confirmed", "twin", []string{"BK-1006"}},
		{"whitespace term ignored", "pending", "   ", []string{"BK-1002"}},
		{"no match", All, "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rowFilter.Apply(rows, tt.category, tt.term)
			if len(got) != len(tt.wantRefs) {
				t.Fatalf("got %d rows, want %d", len(got), len(tt.wantRefs))
			}
			for i, r := range got {
				if r.ref != tt.wantRefs[i] {
					t.Fatalf("row %d = %s, want %s", i, r.ref, tt.wantRefs[i])
				}
			}
		})
	}
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	rows := sampleRows()
	before := fmt.Sprint(rows)
	_ = rowFilter.Apply(rows, "confirmed", "ama")
	if fmt.Sprint(rows) != before {
		t.Fatalf("source collection was mutated")
	}
}

func TestCountsPartitionCollection(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(40)
		rows := make([]row, n)
		for i := range rows {
			rows[i] = row{ref: fmt.Sprintf("BK-%d", i), status: statuses[rng.Intn(len(statuses))]}
		}

		counts := rowFilter.Counts(rows, statuses)
		if counts[0].Category != All || counts[0].Count != n {
			t.Fatalf("all count = %+v, want %d", counts[0], n)
		}
		sum := 0
		for _, c := range counts[1:] {
			sum += c.Count
		}
		if sum != n {
			t.Fatalf("per-category counts sum to %d, want %d", sum, n)
		}
	}
}

func TestSearchResultIsSubsetOfCategoryResult(t *testing.T) {
	rows := sampleRows()
	terms := []string{"", "a", "deluxe", "bk-100", "zzz", "OWUSU"}
	for _, category := range append([]string{All}, statuses...) {
		byCategory := rowFilter.Apply(rows, category, "")
		allowed := make(map[string]bool, len(byCategory))
		for _, r := range byCategory {
			allowed[r.ref] = true
		}
		for _, term := range terms {
			for _, r := range rowFilter.Apply(rows, category, term) {
				if !allowed[r.ref] {
					t.Fatalf("%s/%q returned %s outside category result", category, term, r.ref)
				}
			}
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory(" Confirmed ", statuses); got != "confirmed" {
		t.Fatalf("NormalizeCategory = %q", got)
	}
	if got := NormalizeCategory("archived", statuses); got != All {
		t.Fatalf("NormalizeCategory(unknown) = %q", got)
	}
}

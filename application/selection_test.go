package application

import (
	"testing"

	"github.com/felixgeelhaar/maitre/domain/task"
)

func testShortlist() []task.Candidate {
	return []task.Candidate{
		{ID: "r1", Name: "Trattoria Roma"},
		{ID: "r2", Name: "Osteria Blu"},
		{ID: "r3", Name: "Casa Pasta"},
	}
}

func TestParseSelection(t *testing.T) {
	shortlist := testShortlist()

	tests := []struct {
		name    string
		message string
		wantID  string
	}{
		{"digit one", "1", "r1"},
		{"digit two", "2", "r2"},
		{"digit three", "3", "r3"},
		{"word ordinal", "second", "r2"},
		{"word number", "three", "r3"},
		{"spanish ordinal", "primero", "r1"},
		{"spanish number", "dos", "r2"},
		{"whitespace trimmed", "  2  ", "r2"},
		{"uppercase ordinal", "FIRST", "r1"},
		{"exact name", "Osteria Blu", "r2"},
		{"name case insensitive", "casa pasta", "r3"},
		{"name within sentence", "let's go with Trattoria Roma please", "r1"},
		{"out of range digit", "4", ""},
		{"unknown text", "the cheap one", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSelection(tt.message, shortlist)

			if tt.wantID == "" {
				if got != nil {
					t.Errorf("ParseSelection(%q) = %q, want nil", tt.message, got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseSelection(%q) = nil, want %q", tt.message, tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("ParseSelection(%q) = %q, want %q", tt.message, got.ID, tt.wantID)
			}
		})
	}
}

func TestParseSelection_ShortShortlist(t *testing.T) {
	shortlist := testShortlist()[:2]

	if got := ParseSelection("3", shortlist); got != nil {
		t.Errorf("ParseSelection(%q) = %q, want nil for two-item shortlist", "3", got.ID)
	}
	if got := ParseSelection("2", shortlist); got == nil || got.ID != "r2" {
		t.Errorf("ParseSelection(%q) = %v, want r2", "2", got)
	}
}

func TestParseSelection_EmptyShortlist(t *testing.T) {
	if got := ParseSelection("1", nil); got != nil {
		t.Errorf("ParseSelection with empty shortlist = %v, want nil", got)
	}
}

func TestParseSelection_ReturnsCopy(t *testing.T) {
	shortlist := testShortlist()
	got := ParseSelection("1", shortlist)
	if got == nil {
		t.Fatal("ParseSelection returned nil")
	}

	got.Name = "mutated"
	if shortlist[0].Name != "Trattoria Roma" {
		t.Error("ParseSelection exposed shortlist entry")
	}
}

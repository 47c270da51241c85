package task

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestReservationParams_Merge(t *testing.T) {
	tests := []struct {
		name     string
		base     ReservationParams
		incoming ReservationParams
		expected ReservationParams
	}{
		{
			name:     "fills unknown fields",
			base:     ReservationParams{Query: strPtr("pizza")},
			incoming: ReservationParams{Location: strPtr("downtown"), PartySize: intPtr(4)},
			expected: ReservationParams{Query: strPtr("pizza"), Location: strPtr("downtown"), PartySize: intPtr(4)},
		},
		{
			name:     "nil incoming never clears known values",
			base:     ReservationParams{Query: strPtr("pizza"), Date: strPtr("2026-09-01")},
			incoming: ReservationParams{},
			expected: ReservationParams{Query: strPtr("pizza"), Date: strPtr("2026-09-01")},
		},
		{
			name:     "explicit replacement overwrites",
			base:     ReservationParams{Time: strPtr("19:00")},
			incoming: ReservationParams{Time: strPtr("20:30")},
			expected: ReservationParams{Time: strPtr("20:30")},
		},
		{
			name:     "optional fields merge the same way",
			base:     ReservationParams{RadiusMeters: intPtr(500)},
			incoming: ReservationParams{PriceTier: intPtr(2), Extras: strPtr("terrace")},
			expected: ReservationParams{RadiusMeters: intPtr(500), PriceTier: intPtr(2), Extras: strPtr("terrace")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base
			got.Merge(tt.incoming)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Merge() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestReservationParams_MissingCritical(t *testing.T) {
	tests := []struct {
		name     string
		params   ReservationParams
		expected []string
	}{
		{
			name:     "everything missing",
			params:   ReservationParams{},
			expected: []string{FieldQuery, FieldLocation, FieldDate, FieldTime, FieldPartySize},
		},
		{
			name: "complete",
			params: ReservationParams{
				Query: strPtr("sushi"), Location: strPtr("midtown"),
				Date: strPtr("2026-09-01"), Time: strPtr("19:30"), PartySize: intPtr(2),
			},
			expected: nil,
		},
		{
			name:     "non-critical fields do not count",
			params:   ReservationParams{RadiusMeters: intPtr(1000), Extras: strPtr("vegan")},
			expected: []string{FieldQuery, FieldLocation, FieldDate, FieldTime, FieldPartySize},
		},
		{
			name: "partial",
			params: ReservationParams{
				Query: strPtr("tapas"), Date: strPtr("2026-09-01"),
			},
			expected: []string{FieldLocation, FieldTime, FieldPartySize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.params.MissingCritical()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("MissingCritical() = %v, want %v", got, tt.expected)
			}
			if tt.params.Complete() != (len(tt.expected) == 0) {
				t.Errorf("Complete() = %v, want %v", tt.params.Complete(), len(tt.expected) == 0)
			}
		})
	}
}

// Completeness must be a pure function of the five critical fields: every
// subset of known fields maps to one deterministic answer.
func TestReservationParams_CompletenessAllCombinations(t *testing.T) {
	setters := []func(*ReservationParams){
		func(p *ReservationParams) { p.Query = strPtr("q") },
		func(p *ReservationParams) { p.Location = strPtr("l") },
		func(p *ReservationParams) { p.Date = strPtr("2026-09-01") },
		func(p *ReservationParams) { p.Time = strPtr("19:00") },
		func(p *ReservationParams) { p.PartySize = intPtr(2) },
	}

	for mask := 0; mask < 1<<len(setters); mask++ {
		var p ReservationParams
		for i, set := range setters {
			if mask&(1<<i) != 0 {
				set(&p)
			}
		}

		wantComplete := mask == 1<<len(setters)-1
		if got := p.Complete(); got != wantComplete {
			t.Errorf("mask %05b: Complete() = %v, want %v", mask, got, wantComplete)
		}

		wantMissing := len(setters) - popcount(mask)
		if got := len(p.MissingCritical()); got != wantMissing {
			t.Errorf("mask %05b: len(MissingCritical()) = %d, want %d", mask, got, wantMissing)
		}
	}
}

func popcount(n int) int {
	count := 0
	for n != 0 {
		count += n & 1
		n >>= 1
	}
	return count
}

package task

// Candidate is a restaurant candidate record. Produced by search, enriched
// in place by the availability and ranking steps.
type Candidate struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
	PriceTier   int     `json:"price_tier,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Website     string  `json:"website,omitempty"`

	// Availability, filled by check_availability. Available is nil while
	// unknown, including when the availability provider failed for this
	// candidate (unavailable-unknown, never dropped).
	HasChannel     bool     `json:"has_channel"`
	Available      *bool    `json:"available,omitempty"`
	AlternateSlots []string `json:"alternate_slots,omitempty"`

	// Ranking, filled by rank_restaurants. Score is nil when the
	// deterministic fallback ordering was used.
	Score          *float64 `json:"score,omitempty"`
	ScoreRationale string   `json:"score_rationale,omitempty"`
}

// ShortlistLimit caps how many candidates are presented for selection.
const ShortlistLimit = 3

package task

// IntentKind classifies what the user is trying to do.
type IntentKind string

const (
	IntentSearchAndBook     IntentKind = "search_and_book"
	IntentSearchOnly        IntentKind = "search_only"
	IntentModifyReservation IntentKind = "modify_reservation"
	IntentCancelReservation IntentKind = "cancel_reservation"
	IntentUnclear           IntentKind = "unclear"
)

// IsValid returns true if the kind belongs to the closed intent set.
func (k IntentKind) IsValid() bool {
	switch k {
	case IntentSearchAndBook, IntentSearchOnly, IntentModifyReservation,
		IntentCancelReservation, IntentUnclear:
		return true
	default:
		return false
	}
}

// Intent is the classification result produced by the inference collaborator.
type Intent struct {
	Kind IntentKind `json:"kind"`

	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence"`

	// MissingFields names the reservation fields the classifier believes
	// are still unknown. Informational only; check_completeness is the
	// authoritative gate.
	MissingFields []string `json:"missing_fields,omitempty"`
}

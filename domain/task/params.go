package task

// ReservationParams is the evolving reservation request. Fields are
// independently nullable; a nil pointer means the field is unknown.
type ReservationParams struct {
	// Search fields.
	Query         *string `json:"query,omitempty"`
	Location      *string `json:"location,omitempty"`
	RadiusMeters  *int    `json:"radius_meters,omitempty"`
	PriceTier     *int    `json:"price_tier,omitempty"`
	Extras        *string `json:"extras,omitempty"`
	MaxTravelMins *int    `json:"max_travel_mins,omitempty"`
	TravelMode    *string `json:"travel_mode,omitempty"`

	// Reservation fields.
	Date      *string `json:"date,omitempty"` // YYYY-MM-DD
	Time      *string `json:"time,omitempty"` // HH:MM
	PartySize *int    `json:"party_size,omitempty"`
}

// Critical field names, in the order they are reported as missing.
const (
	FieldQuery     = "query"
	FieldLocation  = "location"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldPartySize = "party_size"
)

// Merge applies additive-merge semantics: a field of p is overwritten only
// when the incoming value explicitly supplies a replacement. Nil incoming
// fields never clear previously known values.
func (p *ReservationParams) Merge(in ReservationParams) {
	if in.Query != nil {
		p.Query = in.Query
	}
	if in.Location != nil {
		p.Location = in.Location
	}
	if in.RadiusMeters != nil {
		p.RadiusMeters = in.RadiusMeters
	}
	if in.PriceTier != nil {
		p.PriceTier = in.PriceTier
	}
	if in.Extras != nil {
		p.Extras = in.Extras
	}
	if in.MaxTravelMins != nil {
		p.MaxTravelMins = in.MaxTravelMins
	}
	if in.TravelMode != nil {
		p.TravelMode = in.TravelMode
	}
	if in.Date != nil {
		p.Date = in.Date
	}
	if in.Time != nil {
		p.Time = in.Time
	}
	if in.PartySize != nil {
		p.PartySize = in.PartySize
	}
}

// MissingCritical returns the critical fields that are still unknown.
// The critical set is {query, location, date, time, party_size}.
func (p ReservationParams) MissingCritical() []string {
	var missing []string
	if p.Query == nil {
		missing = append(missing, FieldQuery)
	}
	if p.Location == nil {
		missing = append(missing, FieldLocation)
	}
	if p.Date == nil {
		missing = append(missing, FieldDate)
	}
	if p.Time == nil {
		missing = append(missing, FieldTime)
	}
	if p.PartySize == nil {
		missing = append(missing, FieldPartySize)
	}
	return missing
}

// Complete returns true when every critical field is known.
func (p ReservationParams) Complete() bool {
	return len(p.MissingCritical()) == 0
}

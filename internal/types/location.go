package types

import "strings"

// PreviousActivity is an already-resolved itinerary entry, carried forward as
// disambiguation context for later refinements. Address stays empty when the
// earlier refinement produced none.
type PreviousActivity struct {
	Title   string `json:"title"`
	Address string `json:"address,omitempty"`
}

// LocationRefinementRequest describes one itinerary activity whose location
// should be refined into a geocodable hint. Destination and ActivityTitle are
// required; everything else is included in the prompt only when present.
// PreviousActivities is in chronological itinerary order and is never mutated
// by a refinement call.
type LocationRefinementRequest struct {
	Destination        string
	ActivityTitle      string
	Kind               *string
	TimeSlot           *string
	ExistingAddress    *string
	ExistingNote       *string
	DayLabel           *string
	PreviousActivities []PreviousActivity
}

// Validate rejects requests missing the two required fields.
func (r LocationRefinementRequest) Validate() error {
	if strings.TrimSpace(r.Destination) == "" || strings.TrimSpace(r.ActivityTitle) == "" {
		return ErrEmptyInput
	}
	return nil
}

// LocationRefinementResult is the schema a location-refinement model reply must
// conform to. Latitude and Longitude are paired: both nil or both present, and
// present only above the confidence gate. Reason is always set.
type LocationRefinementResult struct {
	RefinedName     *string  `json:"refined_name"`
	AddressHint     *string  `json:"address_hint"`
	SearchQueries   []string `json:"search_queries" validate:"max=3"`
	NearbyLandmarks []string `json:"nearby_landmarks"`
	Latitude        *float64 `json:"latitude" validate:"omitnil,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" validate:"omitnil,gte=-180,lte=180"`
	Confidence      *float64 `json:"confidence" validate:"omitnil,gte=0,lte=1"`
	Reason          string   `json:"reason" validate:"required"`
}

// ItineraryActivity is one plannable entry of an itinerary day, before
// refinement. Fields other than Title may be empty.
type ItineraryActivity struct {
	Title    string  `json:"title"`
	Kind     *string `json:"kind,omitempty"`
	TimeSlot *string `json:"time_slot,omitempty"`
	Address  *string `json:"address,omitempty"`
	Note     *string `json:"note,omitempty"`
}

// ItineraryDay groups the activities of one labelled day.
type ItineraryDay struct {
	Label      string              `json:"label"`
	Activities []ItineraryActivity `json:"activities"`
}

package types

import "strings"

// TripIntent is the structured travel-planning intent extracted from free-form
// user text. Every field that could not be determined with confidence is nil,
// never an empty string or zero standing in for "unknown".
type TripIntent struct {
	Destination string   `json:"destination"`
	Origin      *string  `json:"origin"`
	Days        *int     `json:"days" validate:"omitnil,gt=0"`
	Budget      *int     `json:"budget" validate:"omitnil,gte=0"`
	PartySize   *int     `json:"party_size" validate:"omitnil,gt=0"`
	Preferences []string `json:"preferences"`
	Notes       []string `json:"notes"`
}

// HeuristicParse is a prior, lower-confidence best-effort parse of the same
// shape as TripIntent, produced without a model call. It is supplied to the
// model as advisory context: the model may confirm, refine, or override it,
// but it is never silently overwritten.
type HeuristicParse = TripIntent

// IntentRequest carries the inputs for one trip-intent extraction.
type IntentRequest struct {
	InputText        string          `json:"input_text"`
	KnownPreferences []string        `json:"known_preferences"`
	HeuristicParse   *HeuristicParse `json:"heuristic_parse"`
}

// Validate rejects inputs the prompt builder must never see.
func (r IntentRequest) Validate() error {
	if strings.TrimSpace(r.InputText) == "" {
		return ErrEmptyInput
	}
	return nil
}

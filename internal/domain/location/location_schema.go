package location

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lushu-app/lushu-api/internal/llm"
	"github.com/lushu-app/lushu-api/internal/types"
)

// Coordinates below this confidence are discarded rather than trusted.
const coordinateConfidenceGate = 0.7

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseReply parses and validates a raw model reply against the
// location-refinement schema. Beyond field constraints it enforces the two
// cross-field rules free-text instructions cannot guarantee: latitude and
// longitude are paired, and coordinates below the confidence gate are nulled.
func ParseReply(raw string) (*types.LocationRefinementResult, error) {
	clean := llm.CleanJSONResponse(raw)

	decoder := json.NewDecoder(strings.NewReader(clean))
	decoder.DisallowUnknownFields()

	var result types.LocationRefinementResult
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSchemaViolation, err)
	}
	if err := validate.Struct(result); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSchemaViolation, err)
	}

	// A lone coordinate is a contract violation, not a value to salvage.
	if (result.Latitude == nil) != (result.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be paired", types.ErrSchemaViolation)
	}

	// Confidence gating: keep coordinates only when the model is sure.
	if result.Latitude != nil {
		if result.Confidence == nil || *result.Confidence < coordinateConfidenceGate {
			result.Latitude = nil
			result.Longitude = nil
		}
	}
	return &result, nil
}

package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lushu-app/lushu-api/internal/llm"
	"github.com/lushu-app/lushu-api/internal/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseReply parses and validates a raw model reply against the trip-intent
// schema. Markdown fences and surrounding prose are stripped before parsing.
// A reply that parses but violates a field constraint (e.g. days <= 0) is a
// schema violation, not a partial success.
func ParseReply(raw string) (*types.TripIntent, error) {
	clean := llm.CleanJSONResponse(raw)

	decoder := json.NewDecoder(strings.NewReader(clean))
	decoder.DisallowUnknownFields()

	var reply types.TripIntent
	if err := decoder.Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSchemaViolation, err)
	}
	if err := validate.Struct(reply); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSchemaViolation, err)
	}
	return &reply, nil
}

// ValidateReply reports whether a parsed reply satisfies the schema's field
// constraints without re-parsing.
func ValidateReply(reply *types.TripIntent) error {
	if reply == nil {
		return types.ErrSchemaViolation
	}
	if err := validate.Struct(reply); err != nil {
		return fmt.Errorf("%w: %v", types.ErrSchemaViolation, err)
	}
	return nil
}

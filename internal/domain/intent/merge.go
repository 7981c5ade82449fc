package intent

import "github.com/lushu-app/lushu-api/internal/types"

// Merge combines the heuristic pre-parse with a validated model reply.
// The reply wins only where it is non-null; the heuristic fills remaining
// gaps. A field null on both sides stays null and must be surfaced to the
// user as unknown, never defaulted.
func Merge(heuristic *types.HeuristicParse, reply *types.TripIntent) types.TripIntent {
	var merged types.TripIntent
	if heuristic != nil {
		merged = *heuristic
	}
	if reply == nil {
		return merged
	}

	if reply.Destination != "" {
		merged.Destination = reply.Destination
	}
	if reply.Origin != nil {
		merged.Origin = reply.Origin
	}
	if reply.Days != nil {
		merged.Days = reply.Days
	}
	if reply.Budget != nil {
		merged.Budget = reply.Budget
	}
	if reply.PartySize != nil {
		merged.PartySize = reply.PartySize
	}
	if len(reply.Preferences) > 0 {
		merged.Preferences = reply.Preferences
	}
	if len(reply.Notes) > 0 {
		merged.Notes = reply.Notes
	}
	return merged
}

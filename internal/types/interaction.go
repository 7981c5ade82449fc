package types

import (
	"time"

	"github.com/google/uuid"
)

// LlmInteraction is one audited model call: the prompts sent, the raw reply,
// and timing. Persisted for offline inspection of prompt quality.
type LlmInteraction struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	Pipeline     string    `json:"pipeline"` // "intent" or "location"
	SystemPrompt string    `json:"system_prompt"`
	UserPrompt   string    `json:"user_prompt"`
	ResponseText string    `json:"response"`
	ModelUsed    string    `json:"model_name"`
	LatencyMs    int       `json:"latency_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

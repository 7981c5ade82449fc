package interaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lushu-app/lushu-api/internal/types"
)

// Recorder persists audited model interactions. Failures are non-fatal for
// the calling pipeline.
type Recorder interface {
	SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (uuid.UUID, error)
	GetRecentInteractions(ctx context.Context, sessionID uuid.UUID, limit int) ([]types.LlmInteraction, error)
}

// PgxIface is the subset of pgxpool.Pool the repository needs; satisfied by
// pgxmock in tests.
type PgxIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Recorder = (*RepositoryImpl)(nil)

type RepositoryImpl struct {
	logger *slog.Logger
	pool   PgxIface
}

func NewRepositoryImpl(pool PgxIface, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, pool: pool}
}

func (r *RepositoryImpl) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (uuid.UUID, error) {
	ctx, span := otel.Tracer("InteractionRepo").Start(ctx, "SaveInteraction", trace.WithAttributes(
		attribute.String("db.sql.table", "llm_interactions"),
		attribute.String("session.id", interaction.SessionID.String()),
		attribute.String("pipeline", interaction.Pipeline),
		attribute.String("model.used", interaction.ModelUsed),
		attribute.Int("latency.ms", interaction.LatencyMs),
	))
	defer span.End()

	query := `
        INSERT INTO llm_interactions (
            session_id, pipeline, system_prompt, user_prompt, response, model_name, latency_ms
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		interaction.SessionID,
		interaction.Pipeline,
		interaction.SystemPrompt,
		interaction.UserPrompt,
		interaction.ResponseText,
		interaction.ModelUsed,
		interaction.LatencyMs,
	).Scan(&id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert llm_interaction")
		return uuid.Nil, fmt.Errorf("failed to insert llm_interaction: %w", err)
	}
	span.SetAttributes(attribute.String("llm_interaction.id", id.String()))
	return id, nil
}

func (r *RepositoryImpl) GetRecentInteractions(ctx context.Context, sessionID uuid.UUID, limit int) ([]types.LlmInteraction, error) {
	ctx, span := otel.Tracer("InteractionRepo").Start(ctx, "GetRecentInteractions", trace.WithAttributes(
		attribute.String("db.sql.table", "llm_interactions"),
		attribute.String("session.id", sessionID.String()),
	))
	defer span.End()

	query := `
        SELECT id, session_id, pipeline, system_prompt, user_prompt, response, model_name, latency_ms, created_at
        FROM llm_interactions
        WHERE session_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query llm_interactions")
		return nil, fmt.Errorf("failed to query llm_interactions: %w", err)
	}
	defer rows.Close()

	var interactions []types.LlmInteraction
	for rows.Next() {
		var it types.LlmInteraction
		if err := rows.Scan(&it.ID, &it.SessionID, &it.Pipeline, &it.SystemPrompt, &it.UserPrompt,
			&it.ResponseText, &it.ModelUsed, &it.LatencyMs, &it.Timestamp); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan llm_interaction: %w", err)
		}
		interactions = append(interactions, it)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("llm_interactions rows: %w", err)
	}
	return interactions, nil
}

// NoopRecorder discards interactions; used when no database is configured.
type NoopRecorder struct{}

func (NoopRecorder) SaveInteraction(_ context.Context, _ types.LlmInteraction) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (NoopRecorder) GetRecentInteractions(_ context.Context, _ uuid.UUID, _ int) ([]types.LlmInteraction, error) {
	return nil, nil
}

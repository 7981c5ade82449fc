package intent

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/lushu-app/lushu-api/internal/domain/heuristic"
	"github.com/lushu-app/lushu-api/internal/domain/interaction"
	"github.com/lushu-app/lushu-api/internal/llm"
	"github.com/lushu-app/lushu-api/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for trip-intent extraction.
type Service interface {
	ExtractIntent(ctx context.Context, sessionID uuid.UUID, text string, knownPreferences []string) (*types.TripIntent, error)
}

// ServiceImpl extracts trip intent: heuristic pre-parse, prompt build, model
// call, schema validation, merge. One retry on a non-conformant reply.
type ServiceImpl struct {
	logger   *slog.Logger
	aiClient llm.ChatClient
	parser   *heuristic.Parser
	recorder interaction.Recorder
	cache    *cache.Cache
	limiter  *rate.Limiter
}

func NewService(aiClient llm.ChatClient, recorder interaction.Recorder, limiter *rate.Limiter, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
		parser:   heuristic.NewParser(),
		recorder: recorder,
		cache:    cache.New(24*time.Hour, 1*time.Hour),
		limiter:  limiter,
	}
}

func (s *ServiceImpl) ExtractIntent(ctx context.Context, sessionID uuid.UUID, text string, knownPreferences []string) (*types.TripIntent, error) {
	ctx, span := otel.Tracer("IntentService").Start(ctx, "ExtractIntent", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.Int("input.length", len(text)),
	))
	defer span.End()

	preParse := s.parser.Parse(text)
	span.SetAttributes(attribute.Bool("heuristic.hit", preParse != nil))

	req := types.IntentRequest{
		InputText:        text,
		KnownPreferences: knownPreferences,
		HeuristicParse:   preParse,
	}
	systemPrompt, userPrompt, err := BuildPrompts(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid extraction input")
		return nil, err
	}
	span.SetAttributes(attribute.Int("prompt.length", len(userPrompt)))

	cacheKey := intentCacheKey(userPrompt)
	if cached, found := s.cache.Get(cacheKey); found {
		span.AddEvent("cache hit")
		merged := Merge(preParse, cached.(*types.TripIntent))
		return &merged, nil
	}

	reply, err := s.generateValidated(ctx, sessionID, systemPrompt, userPrompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "intent extraction failed")
		return nil, err
	}
	s.cache.Set(cacheKey, reply, cache.DefaultExpiration)

	merged := Merge(preParse, reply)
	span.SetStatus(codes.Ok, "intent extracted")
	return &merged, nil
}

// generateValidated performs the model call and schema validation, retrying
// once with a stricter restatement when the first reply is non-conformant.
func (s *ServiceImpl) generateValidated(ctx context.Context, sessionID uuid.UUID, systemPrompt, userPrompt string) (*types.TripIntent, error) {
	prompt := userPrompt
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter wait: %w", err)
			}
		}

		start := time.Now()
		raw, err := s.aiClient.GenerateContent(ctx, systemPrompt, prompt)
		latency := time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrNoResponse, err)
		}
		s.record(ctx, sessionID, systemPrompt, prompt, raw, latency)

		reply, parseErr := ParseReply(raw)
		if parseErr == nil {
			return reply, nil
		}
		lastErr = parseErr
		s.logger.WarnContext(ctx, "model reply violated intent schema, retrying",
			slog.Int("attempt", attempt+1),
			slog.String("error", parseErr.Error()))
		prompt = userPrompt + intentStrictRetrySuffix
	}
	return nil, lastErr
}

func (s *ServiceImpl) record(ctx context.Context, sessionID uuid.UUID, systemPrompt, userPrompt, response string, latency time.Duration) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.SaveInteraction(ctx, types.LlmInteraction{
		SessionID:    sessionID,
		Pipeline:     "intent",
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		ResponseText: response,
		ModelUsed:    s.aiClient.Model(),
		LatencyMs:    int(latency.Milliseconds()),
	})
	if err != nil {
		// Audit logging is best effort; extraction itself succeeded.
		s.logger.WarnContext(ctx, "failed to save llm interaction", slog.String("error", err.Error()))
	}
}

func intentCacheKey(userPrompt string) string {
	sum := md5.Sum([]byte(userPrompt))
	return "intent:" + hex.EncodeToString(sum[:])
}

package location

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lushu-app/lushu-api/internal/domain/interaction"
	"github.com/lushu-app/lushu-api/internal/llm"
	"github.com/lushu-app/lushu-api/internal/types"
)

// ResolvedActivity is one refined itinerary entry. Err is set when that
// single refinement failed; the rest of the itinerary is unaffected.
type ResolvedActivity struct {
	DayLabel string                          `json:"day_label"`
	Title    string                          `json:"title"`
	Result   *types.LocationRefinementResult `json:"result,omitempty"`
	Err      error                           `json:"-"`
}

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for location refinement.
type Service interface {
	RefineActivity(ctx context.Context, sessionID uuid.UUID, req types.LocationRefinementRequest) (*types.LocationRefinementResult, error)
	RefineItinerary(ctx context.Context, sessionID uuid.UUID, destination string, days []types.ItineraryDay) ([]ResolvedActivity, error)
	RefineItineraries(ctx context.Context, sessionID uuid.UUID, itineraries map[string][]types.ItineraryDay) (map[string][]ResolvedActivity, error)
}

// ServiceImpl refines activity locations day by day, feeding each confirmed
// location back into the next refinement as disambiguation context.
type ServiceImpl struct {
	logger   *slog.Logger
	aiClient llm.ChatClient
	recorder interaction.Recorder
	cache    *cache.Cache
	limiter  *rate.Limiter
}

func NewService(aiClient llm.ChatClient, recorder interaction.Recorder, limiter *rate.Limiter, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
		recorder: recorder,
		cache:    cache.New(24*time.Hour, 1*time.Hour),
		limiter:  limiter,
	}
}

func (s *ServiceImpl) RefineActivity(ctx context.Context, sessionID uuid.UUID, req types.LocationRefinementRequest) (*types.LocationRefinementResult, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "RefineActivity", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.String("activity.title", req.ActivityTitle),
		attribute.Int("previous.count", len(req.PreviousActivities)),
	))
	defer span.End()

	systemPrompt, userPrompt, err := BuildPrompts(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid refinement input")
		return nil, err
	}
	span.SetAttributes(attribute.Int("prompt.length", len(userPrompt)))

	cacheKey := locationCacheKey(userPrompt)
	if cached, found := s.cache.Get(cacheKey); found {
		span.AddEvent("cache hit")
		return cached.(*types.LocationRefinementResult), nil
	}

	result, err := s.generateValidated(ctx, sessionID, systemPrompt, userPrompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "location refinement failed")
		return nil, err
	}
	s.cache.Set(cacheKey, result, cache.DefaultExpiration)

	span.SetStatus(codes.Ok, "location refined")
	return result, nil
}

// RefineItinerary walks the itinerary in chronological order. Every successful
// refinement is appended to the accumulating previous-activity context, so a
// later "午餐" can be resolved near the morning's museum. A failed item is
// reported in place and skipped as context.
func (s *ServiceImpl) RefineItinerary(ctx context.Context, sessionID uuid.UUID, destination string, days []types.ItineraryDay) ([]ResolvedActivity, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "RefineItinerary", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.String("destination", destination),
		attribute.Int("days.count", len(days)),
	))
	defer span.End()

	var resolved []ResolvedActivity
	var previous []types.PreviousActivity

	for _, day := range days {
		dayLabel := day.Label
		for _, activity := range day.Activities {
			req := types.LocationRefinementRequest{
				Destination:        destination,
				ActivityTitle:      activity.Title,
				Kind:               activity.Kind,
				TimeSlot:           activity.TimeSlot,
				ExistingAddress:    activity.Address,
				ExistingNote:       activity.Note,
				PreviousActivities: previous,
			}
			if dayLabel != "" {
				req.DayLabel = &dayLabel
			}

			result, err := s.RefineActivity(ctx, sessionID, req)
			entry := ResolvedActivity{DayLabel: dayLabel, Title: activity.Title, Result: result, Err: err}
			resolved = append(resolved, entry)
			if err != nil {
				s.logger.WarnContext(ctx, "activity refinement failed, continuing itinerary",
					slog.String("activity", activity.Title),
					slog.String("error", err.Error()))
				continue
			}

			prev := types.PreviousActivity{Title: activity.Title}
			if result.RefinedName != nil {
				prev.Title = *result.RefinedName
			}
			if result.AddressHint != nil {
				prev.Address = *result.AddressHint
			}
			previous = append(previous, prev)
		}
	}

	span.SetAttributes(attribute.Int("resolved.count", len(resolved)))
	return resolved, nil
}

// RefineItineraries fans out across independent itineraries. Context
// accumulation only exists within one itinerary, so itineraries can be refined
// concurrently; the shared rate limiter bounds the overall model-call rate.
func (s *ServiceImpl) RefineItineraries(ctx context.Context, sessionID uuid.UUID, itineraries map[string][]types.ItineraryDay) (map[string][]ResolvedActivity, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "RefineItineraries", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.Int("itineraries.count", len(itineraries)),
	))
	defer span.End()

	results := make(map[string][]ResolvedActivity, len(itineraries))
	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for destination, days := range itineraries {
		g.Go(func() error {
			resolved, err := s.RefineItinerary(gCtx, sessionID, destination, days)
			if err != nil {
				return fmt.Errorf("itinerary %q: %w", destination, err)
			}
			mu.Lock()
			results[destination] = resolved
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch refinement failed")
		return nil, err
	}
	return results, nil
}

func (s *ServiceImpl) generateValidated(ctx context.Context, sessionID uuid.UUID, systemPrompt, userPrompt string) (*types.LocationRefinementResult, error) {
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

		result, parseErr := ParseReply(raw)
		if parseErr == nil {
			return result, nil
		}
		lastErr = parseErr
		s.logger.WarnContext(ctx, "model reply violated location schema, retrying",
			slog.Int("attempt", attempt+1),
			slog.String("error", parseErr.Error()))
		prompt = userPrompt + locationStrictRetrySuffix
	}
	return nil, lastErr
}

func (s *ServiceImpl) record(ctx context.Context, sessionID uuid.UUID, systemPrompt, userPrompt, response string, latency time.Duration) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.SaveInteraction(ctx, types.LlmInteraction{
		SessionID:    sessionID,
		Pipeline:     "location",
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		ResponseText: response,
		ModelUsed:    s.aiClient.Model(),
		LatencyMs:    int(latency.Milliseconds()),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to save llm interaction", slog.String("error", err.Error()))
	}
}

func locationCacheKey(userPrompt string) string {
	sum := md5.Sum([]byte(userPrompt))
	return "location:" + hex.EncodeToString(sum[:])
}

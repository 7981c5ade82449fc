package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"github.com/lushu-app/lushu-api/internal/domain/intent"
	"github.com/lushu-app/lushu-api/internal/domain/interaction"
	"github.com/lushu-app/lushu-api/internal/domain/location"
	"github.com/lushu-app/lushu-api/internal/llm"
	"github.com/lushu-app/lushu-api/internal/types"
	"github.com/lushu-app/lushu-api/pkg/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	aiClient, err := llm.NewGeminiChatClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
	if err != nil {
		logger.Error("failed to create gemini client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var recorder interaction.Recorder = interaction.NoopRecorder{}
	if cfg.Database.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		recorder = interaction.NewRepositoryImpl(pool, logger)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), 1)
	intentSvc := intent.NewService(aiClient, recorder, limiter, logger)
	locationSvc := location.NewService(aiClient, recorder, limiter, logger)

	sessionID := uuid.New()

	userText := "下个月想从杭州去上海玩3天，两个人，预算5000元，喜欢博物馆和美食"
	if len(os.Args) > 1 {
		userText = os.Args[1]
	}
	fmt.Printf("输入：%s\n", userText)

	tripIntent, err := intentSvc.ExtractIntent(ctx, sessionID, userText, nil)
	if err != nil {
		logger.Error("intent extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("目的地：%s\n", tripIntent.Destination)
	if tripIntent.Days != nil {
		fmt.Printf("天数：%d\n", *tripIntent.Days)
	}
	if tripIntent.Budget != nil {
		fmt.Printf("预算：%d 元\n", *tripIntent.Budget)
	}
	fmt.Printf("偏好：%v\n", tripIntent.Preferences)

	if tripIntent.Destination == "" {
		return
	}

	days := []types.ItineraryDay{
		{
			Label: "第1天",
			Activities: []types.ItineraryActivity{
				{Title: "上海博物馆"},
				{Title: "外滩夜游"},
			},
		},
	}
	resolved, err := locationSvc.RefineItinerary(ctx, sessionID, tripIntent.Destination, days)
	if err != nil {
		logger.Error("itinerary refinement failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, entry := range resolved {
		if entry.Err != nil {
			fmt.Printf("%s / %s：解析失败（%v）\n", entry.DayLabel, entry.Title, entry.Err)
			continue
		}
		name := entry.Title
		if entry.Result.RefinedName != nil {
			name = *entry.Result.RefinedName
		}
		fmt.Printf("%s / %s：%s（%s）\n", entry.DayLabel, entry.Title, name, entry.Result.Reason)
	}
}

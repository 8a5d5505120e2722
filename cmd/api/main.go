package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/config"
	"github.com/pageza/platewise/backend/internal/api"
	"github.com/pageza/platewise/backend/internal/database"
	"github.com/pageza/platewise/backend/internal/fitbit"
	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/middleware"
	"github.com/pageza/platewise/backend/internal/openfoodfacts"
	"github.com/pageza/platewise/backend/internal/server"
	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/vision"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "platewise: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Environment == config.Production, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Environment != config.Production {
		if err := prepareSchema(db, logger); err != nil {
			return err
		}
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		// Rate limiting, the recommendation cache and Fitbit linking need
		// Redis; everything else keeps working without it.
		logger.Warn("Redis unavailable, continuing without it", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	svc, err := buildServices(ctx, cfg, db, redisClient, logger)
	if err != nil {
		return err
	}

	var limiters api.Limiters
	if redisClient != nil {
		limiters.Identify = middleware.NewIdentifyRateLimiter(redisClient, logger)
		limiters.Recommendation = middleware.NewRecommendationRateLimiter(redisClient, logger)
	}

	srv := server.New(cfg, db, redisClient, svc, limiters, logger)
	return srv.Run(ctx)
}

// prepareSchema migrates and seeds outside production, where cmd/migrate
// does it instead.
func prepareSchema(db *gorm.DB, logger *zap.Logger) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	catalog, err := database.DefaultCatalog()
	if err != nil {
		return err
	}
	return database.Seed(db, catalog, logger)
}

func buildServices(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) (api.Services, error) {
	var identifiers []vision.Identifier
	var completer service.Completer
	if cfg.GeminiAPIKey != "" {
		gemini, err := vision.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return api.Services{}, fmt.Errorf("failed to create gemini client: %w", err)
		}
		identifiers = append(identifiers, gemini)
	}
	if cfg.OpenAIAPIKey != "" {
		openai := vision.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		identifiers = append(identifiers, openai)
		completer = openai
	}
	if cfg.GoogleVisionAPIKey != "" {
		identifiers = append(identifiers, vision.NewGoogleVisionClient(cfg.GoogleVisionAPIKey))
	}
	chain := vision.NewChain(logger, identifiers...)
	logger.Info("Vision providers configured", zap.Strings("providers", chain.Providers()))

	var photoStore service.PhotoStore
	if cfg.S3BucketName != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return api.Services{}, err
		}
		photoStore = service.NewS3PhotoStore(s3Config, cfg.PhotoURLTTL)
	} else {
		logger.Warn("S3_BUCKET_NAME not set, meal photo uploads are disabled")
	}

	foods := service.NewFoodService(db, openfoodfacts.NewClient(cfg.OpenFoodFactsURL), logger)
	fitbitClient := fitbit.NewClient(cfg.FitbitClientID, cfg.FitbitClientSecret, cfg.FitbitRedirectURL)

	return api.Services{
		Auth:           service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, logger),
		Profile:        service.NewProfileService(db),
		Food:           foods,
		Recipe:         service.NewRecipeService(db, service.HashEmbedder{}, logger),
		Meal:           service.NewMealService(db, logger),
		Plan:           service.NewPlanService(db, logger),
		Schedule:       service.NewScheduleService(db, logger),
		Shopping:       service.NewShoppingService(db, logger),
		Achievement:    service.NewAchievementService(db, logger),
		Community:      service.NewCommunityService(db, logger),
		ReadyMeal:      service.NewReadyMealService(db),
		Identify:       service.NewIdentifyService(chain, foods, logger),
		Photo:          service.NewPhotoService(db, photoStore, chain, logger),
		Recommendation: service.NewRecommendationService(db, completer, redisClient, logger),
		Fitbit:         service.NewFitbitService(db, redisClient, fitbitClient, logger),
	}, nil
}

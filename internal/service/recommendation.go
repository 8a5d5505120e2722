package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/vision"
)

const (
	recommendationCacheTTL = time.Hour
	recommendationAttempts = 3
	recommendationCount    = 3
)

// Completer is a text-only language model. *vision.OpenAIClient implements it.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

// Suggestion is one recommended meal.
type Suggestion struct {
	Name     string     `json:"name"`
	MealType string     `json:"meal_type,omitempty"`
	Reason   string     `json:"reason,omitempty"`
	RecipeID *uuid.UUID `json:"recipe_id,omitempty"`
}

// Recommendations is the answer for one user and day.
type Recommendations struct {
	Date        models.Date  `json:"date"`
	Suggestions []Suggestion `json:"suggestions"`
	Source      string       `json:"source"`
}

// RecommendationService suggests meals with the language model and falls
// back to the user's best rated recipes.
type RecommendationService struct {
	db     *gorm.DB
	llm    Completer
	redis  *redis.Client
	meals  *MealService
	logger *zap.Logger
	sleep  func(context.Context, time.Duration) error
}

var _ IRecommendationService = (*RecommendationService)(nil)

func NewRecommendationService(db *gorm.DB, llm Completer, redisClient *redis.Client, logger *zap.Logger) *RecommendationService {
	logger = logging.OrNop(logger)
	return &RecommendationService{
		db:     db,
		llm:    llm,
		redis:  redisClient,
		meals:  NewMealService(db, logger),
		logger: logger.Named("recommendations"),
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func recommendationKey(userID uuid.UUID, date models.Date) string {
	return fmt.Sprintf("recommendations:%s:%s", userID, date)
}

// Suggest returns cached suggestions for the day when present, otherwise
// asks the model and caches the answer for an hour.
func (s *RecommendationService) Suggest(ctx context.Context, userID uuid.UUID, day string) (*Recommendations, error) {
	date, err := parseDate(day)
	if err != nil {
		return nil, err
	}
	key := recommendationKey(userID, date)

	if s.redis != nil {
		data, err := s.redis.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cached Recommendations
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		case !errors.Is(err, redis.Nil):
			s.logger.Warn("recommendation cache read failed", zap.Error(err))
		}
	}

	recs, err := s.fromModel(ctx, userID, date)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Info("using rule-based recommendations", zap.Error(err))
		recs, err = s.fromHistory(ctx, userID, date)
		if err != nil {
			return nil, err
		}
	}

	if s.redis != nil && recs.Source != "rules" {
		if data, err := json.Marshal(recs); err == nil {
			if err := s.redis.Set(ctx, key, data, recommendationCacheTTL).Err(); err != nil {
				s.logger.Warn("recommendation cache write failed", zap.Error(err))
			}
		}
	}
	return recs, nil
}

const recommendationSystemPrompt = `You are a nutrition assistant. Suggest meals for the rest of the day.
Respond with JSON only: {"suggestions":[{"name":"...","meal_type":"breakfast|lunch|dinner|snack","reason":"..."}]}`

func (s *RecommendationService) fromModel(ctx context.Context, userID uuid.UUID, date models.Date) (*Recommendations, error) {
	if s.llm == nil {
		return nil, vision.ErrUnavailable
	}

	report, err := s.meals.GoalProgress(ctx, userID, date.String())
	if err != nil {
		return nil, err
	}
	var names []string
	err = s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(20).
		Pluck("name", &names).Error
	if err != nil {
		return nil, dbErr("list recipe names", err)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Date: %s\n", date)
	fmt.Fprintf(&prompt, "Consumed so far: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat.\n",
		report.Consumed.Calories, report.Consumed.Protein, report.Consumed.Carbs, report.Consumed.Fat)
	fmt.Fprintf(&prompt, "Daily goals: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat.\n",
		report.Goals.Calories, report.Goals.Protein, report.Goals.Carbs, report.Goals.Fat)
	if len(names) > 0 {
		fmt.Fprintf(&prompt, "Recipes the user already has: %s.\n", strings.Join(names, "; "))
	}
	fmt.Fprintf(&prompt, "Suggest %d meals.", recommendationCount)

	var text string
	for attempt := 1; attempt <= recommendationAttempts; attempt++ {
		text, err = s.llm.Complete(ctx, recommendationSystemPrompt, prompt.String(), 600)
		if err == nil {
			break
		}
		if !errors.Is(err, vision.ErrRateLimited) || attempt == recommendationAttempts {
			return nil, fmt.Errorf("failed to get recommendations after %d attempts: %w", attempt, err)
		}
		wait := time.Duration(1<<(attempt-1)) * time.Second
		s.logger.Info("rate limited, backing off", zap.Int("attempt", attempt), zap.Duration("wait", wait))
		if err := s.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	suggestions, err := parseSuggestions(text)
	if err != nil {
		return nil, err
	}
	return &Recommendations{Date: date, Suggestions: suggestions, Source: "ai"}, nil
}

func parseSuggestions(text string) ([]Suggestion, error) {
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, vision.ErrMalformedResponse
	}
	var parsed struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", vision.ErrMalformedResponse, err)
	}
	out := parsed.Suggestions[:0]
	for _, sg := range parsed.Suggestions {
		if strings.TrimSpace(sg.Name) != "" {
			out = append(out, sg)
		}
	}
	if len(out) == 0 {
		return nil, vision.ErrMalformedResponse
	}
	return out, nil
}

// fromHistory picks the user's highest rated recipes, or the newest ones
// when nothing was rated.
func (s *RecommendationService) fromHistory(ctx context.Context, userID uuid.UUID, date models.Date) (*Recommendations, error) {
	var rows []struct {
		RecipeID  uuid.UUID
		Name      string
		AvgRating float64
	}
	err := s.db.WithContext(ctx).
		Table("meals").
		Select("meals.recipe_id AS recipe_id, recipes.name AS name, AVG(meals.rating) AS avg_rating").
		Joins("JOIN recipes ON recipes.id = meals.recipe_id").
		Where("meals.user_id = ? AND meals.rating IS NOT NULL", userID).
		Group("meals.recipe_id, recipes.name").
		Order("avg_rating DESC").
		Limit(recommendationCount).
		Scan(&rows).Error
	if err != nil {
		return nil, dbErr("rank rated recipes", err)
	}

	suggestions := make([]Suggestion, 0, recommendationCount)
	for _, r := range rows {
		id := r.RecipeID
		suggestions = append(suggestions, Suggestion{
			Name:     r.Name,
			Reason:   fmt.Sprintf("You rated it %.1f/5", r.AvgRating),
			RecipeID: &id,
		})
	}

	if len(suggestions) == 0 {
		var recipes []models.Recipe
		err := s.db.WithContext(ctx).Select("id", "name").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(recommendationCount).
			Find(&recipes).Error
		if err != nil {
			return nil, dbErr("list recent recipes", err)
		}
		for _, r := range recipes {
			id := r.ID
			suggestions = append(suggestions, Suggestion{Name: r.Name, Reason: "One of your recent recipes", RecipeID: &id})
		}
	}

	return &Recommendations{Date: date, Suggestions: suggestions, Source: "rules"}, nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/platewise/backend/internal/achievement"
	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
)

// cookingWindowDays is the trailing window counted by the cooking streak.
const cookingWindowDays = 7

// AchievementReport is a user's achievement state after evaluation.
type AchievementReport struct {
	Counters    achievement.Counters     `json:"counters"`
	Statuses    []achievement.Status     `json:"achievements"`
	NewlyEarned []achievement.Definition `json:"newly_earned"`
	TotalPoints int                      `json:"total_points"`
}

type AchievementService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ IAchievementService = (*AchievementService)(nil)

func NewAchievementService(db *gorm.DB, logger *zap.Logger) *AchievementService {
	return &AchievementService{
		db:     db,
		logger: logging.OrNop(logger).Named("achievements"),
		now:    time.Now,
	}
}

// WithClock replaces the time source used for the cooking window.
func (s *AchievementService) WithClock(now func() time.Time) *AchievementService {
	s.now = now
	return s
}

// Definitions loads the catalog. A criteria blob that does not parse is
// logged and kept with KindUnknown so it shows at 0% and is never awarded.
func (s *AchievementService) Definitions(ctx context.Context) ([]achievement.Definition, error) {
	var rows []models.AchievementType
	if err := s.db.WithContext(ctx).Order("reward_points").Order("name").Find(&rows).Error; err != nil {
		return nil, dbErr("list achievement types", err)
	}

	defs := make([]achievement.Definition, 0, len(rows))
	for _, row := range rows {
		criteria, err := achievement.ParseCriteria([]byte(row.Criteria))
		if err != nil {
			s.logger.Warn("unparseable achievement criteria",
				zap.String("achievement_type_id", row.ID.String()),
				zap.String("name", row.Name),
				zap.Error(err))
			criteria = achievement.Criteria{Kind: achievement.KindUnknown}
		}
		defs = append(defs, achievement.Definition{
			ID:           row.ID,
			Name:         row.Name,
			Description:  row.Description,
			Icon:         row.Icon,
			Criteria:     criteria,
			RewardPoints: row.RewardPoints,
		})
	}
	return defs, nil
}

// Counters computes every metric for the user. The queries run concurrently;
// the first failure cancels the rest.
func (s *AchievementService) Counters(ctx context.Context, userID uuid.UUID) (achievement.Counters, error) {
	var c achievement.Counters
	g, ctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(ctx)

	count := func(dst *int64, model interface{}, what string) {
		g.Go(func() error {
			return dbErr("count "+what, db.Model(model).Where("user_id = ?", userID).Count(dst).Error)
		})
	}
	distinct := func(dst *int64, q func() *gorm.DB, what string) {
		g.Go(func() error {
			return dbErr("count "+what, q().Count(dst).Error)
		})
	}

	count(&c.Meals, &models.Meal{}, "meals")
	count(&c.Recipes, &models.Recipe{}, "recipes")
	count(&c.Photos, &models.MealPhoto{}, "photos")
	count(&c.ShoppingLists, &models.ShoppingList{}, "shopping lists")
	count(&c.PlanningWeeks, &models.MealPlan{}, "meal plans")

	distinct(&c.NutritionDays, func() *gorm.DB {
		return db.Model(&models.NutritionLog{}).Where("user_id = ?", userID).Distinct("date")
	}, "nutrition days")
	distinct(&c.UniqueRecipes, func() *gorm.DB {
		return db.Model(&models.Meal{}).Where("user_id = ? AND recipe_id IS NOT NULL", userID).Distinct("recipe_id")
	}, "unique recipes")

	since := models.DateOf(s.now()).AddDays(-cookingWindowDays)
	distinct(&c.CookingStreakDays, func() *gorm.DB {
		return db.Model(&models.Meal{}).Where("user_id = ? AND date >= ?", userID, since).Distinct("date")
	}, "cooking days")

	if err := g.Wait(); err != nil {
		return achievement.Counters{}, err
	}
	return c, nil
}

func (s *AchievementService) awarded(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_type_id", &ids).Error
	if err != nil {
		return nil, dbErr("list awarded achievements", err)
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// awardSnapshot is the counter state stored alongside an award.
type awardSnapshot struct {
	Current int64   `json:"current"`
	Target  float64 `json:"target"`
}

// Progress reports the user's standing without awarding anything.
func (s *AchievementService) Progress(ctx context.Context, userID uuid.UUID) (*AchievementReport, error) {
	report, _, err := s.evaluate(ctx, userID)
	return report, err
}

// Evaluate awards every achievement the user has completed but not yet
// received. Awards are inserted with ON CONFLICT DO NOTHING against the
// (user, achievement type) index, so concurrent or repeated evaluation
// awards each achievement at most once.
func (s *AchievementService) Evaluate(ctx context.Context, userID uuid.UUID) (*AchievementReport, error) {
	report, counters, err := s.evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, def := range report.NewlyEarned {
		snapshot, err := json.Marshal(awardSnapshot{
			Current: counters.Value(def.Criteria.Kind),
			Target:  def.Criteria.Target,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode progress for %q: %w", def.Name, err)
		}
		row := &models.UserAchievement{
			UserID:            userID,
			AchievementTypeID: def.ID,
			AchievedAt:        now,
			Progress:          datatypes.JSON(snapshot),
		}
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return nil, dbErr("award achievement", res.Error)
		}
		if res.RowsAffected > 0 {
			s.logger.Info("achievement earned",
				zap.String("user_id", userID.String()),
				zap.String("achievement", def.Name),
				zap.Int("points", def.RewardPoints))
		}
		markAwarded(report.Statuses, def.ID)
	}

	report.TotalPoints = achievement.TotalPoints(report.Statuses)
	return report, nil
}

func (s *AchievementService) evaluate(ctx context.Context, userID uuid.UUID) (*AchievementReport, achievement.Counters, error) {
	defs, err := s.Definitions(ctx)
	if err != nil {
		return nil, achievement.Counters{}, err
	}
	counters, err := s.Counters(ctx, userID)
	if err != nil {
		return nil, achievement.Counters{}, err
	}
	awarded, err := s.awarded(ctx, userID)
	if err != nil {
		return nil, achievement.Counters{}, err
	}

	statuses, newly := achievement.Evaluate(defs, counters, awarded)
	if newly == nil {
		newly = []achievement.Definition{}
	}
	return &AchievementReport{
		Counters:    counters,
		Statuses:    statuses,
		NewlyEarned: newly,
		TotalPoints: achievement.TotalPoints(statuses),
	}, counters, nil
}

// Earned lists the user's awards, newest first.
func (s *AchievementService) Earned(ctx context.Context, userID uuid.UUID) ([]models.UserAchievement, error) {
	var rows []models.UserAchievement
	err := s.db.WithContext(ctx).Preload("AchievementType").
		Where("user_id = ?", userID).
		Order("achieved_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, dbErr("list user achievements", err)
	}
	return rows, nil
}

func markAwarded(statuses []achievement.Status, id uuid.UUID) {
	for i := range statuses {
		if statuses[i].ID == id {
			statuses[i].Awarded = true
		}
	}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/nutrition"
	"github.com/pageza/platewise/backend/internal/types"
)

// DailyNutrition is one day's log entries and their field-wise sum.
type DailyNutrition struct {
	Date    models.Date           `json:"date"`
	Entries []models.NutritionLog `json:"entries"`
	Totals  nutrition.Macros      `json:"totals"`
}

// MealService covers meals and nutrition logs.
type MealService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IMealService = (*MealService)(nil)

func NewMealService(db *gorm.DB, logger *zap.Logger) *MealService {
	return &MealService{db: db, logger: logging.OrNop(logger).Named("meals")}
}

func parseDate(s string) (models.Date, error) {
	d, err := models.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return d, nil
}

// ownsRecipe reports ErrNotFound unless the recipe exists and belongs to userID.
func ownsRecipe(db *gorm.DB, userID uuid.UUID, recipeID *uuid.UUID) error {
	if recipeID == nil {
		return nil
	}
	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ? AND user_id = ?", *recipeID, userID).Count(&count).Error; err != nil {
		return dbErr("check recipe", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: recipe %s", ErrNotFound, *recipeID)
	}
	return nil
}

func (s *MealService) CreateMeal(ctx context.Context, userID uuid.UUID, req *types.MealRequest) (*models.Meal, error) {
	meal := &models.Meal{UserID: userID}
	if err := s.applyMeal(ctx, userID, meal, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, dbErr("create meal", err)
	}
	return meal, nil
}

func (s *MealService) GetMeal(ctx context.Context, userID, id uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).Preload("Recipe").Where("id = ? AND user_id = ?", id, userID).First(&meal).Error
	if err != nil {
		return nil, dbErr("get meal", err)
	}
	return &meal, nil
}

// ListMeals returns meals in [from, to], both inclusive. Empty bounds are open.
func (s *MealService) ListMeals(ctx context.Context, userID uuid.UUID, from, to string) ([]models.Meal, error) {
	q := s.db.WithContext(ctx).Preload("Recipe").Where("user_id = ?", userID)
	q, err := dateRange(q, "date", from, to)
	if err != nil {
		return nil, err
	}
	var meals []models.Meal
	if err := q.Order("date DESC").Order("created_at DESC").Find(&meals).Error; err != nil {
		return nil, dbErr("list meals", err)
	}
	return meals, nil
}

func (s *MealService) UpdateMeal(ctx context.Context, userID, id uuid.UUID, req *types.MealRequest) (*models.Meal, error) {
	meal, err := s.GetMeal(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyMeal(ctx, userID, meal, req); err != nil {
		return nil, err
	}
	meal.Recipe = nil
	if err := s.db.WithContext(ctx).Save(meal).Error; err != nil {
		return nil, dbErr("update meal", err)
	}
	return meal, nil
}

func (s *MealService) DeleteMeal(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Meal{})
	if res.Error != nil {
		return dbErr("delete meal", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LogMealNutrition records the meal's nutrition: the recipe's per-serving
// macros times the meal quantity.
func (s *MealService) LogMealNutrition(ctx context.Context, userID, mealID uuid.UUID) (*models.NutritionLog, error) {
	meal, err := s.GetMeal(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	if meal.RecipeID == nil {
		return nil, fmt.Errorf("%w: meal has no recipe", ErrInvalidInput)
	}

	var recipe models.Recipe
	if err := preloadIngredients(s.db.WithContext(ctx)).First(&recipe, "id = ?", *meal.RecipeID).Error; err != nil {
		return nil, dbErr("load recipe", err)
	}
	qty := meal.Quantity
	if qty <= 0 {
		qty = 1
	}
	macros := RecipeNutrition(&recipe).PerServing.Scale(qty)

	entry := &models.NutritionLog{
		UserID: userID,
		Date:   meal.Date,
		MealID: &meal.ID,
		Source: "recipe",
	}
	entry.SetMacros(macros)
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, dbErr("create nutrition log", err)
	}
	return entry, nil
}

func (s *MealService) applyMeal(ctx context.Context, userID uuid.UUID, meal *models.Meal, req *types.MealRequest) error {
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}
	if err := ownsRecipe(s.db.WithContext(ctx), userID, req.RecipeID); err != nil {
		return err
	}
	meal.Date = date
	meal.MealType = strings.ToLower(req.MealType)
	meal.RecipeID = req.RecipeID
	meal.FoodItemID = req.FoodItemID
	meal.MealPlanID = req.MealPlanID
	meal.Quantity = req.Quantity
	if meal.Quantity <= 0 {
		meal.Quantity = 1
	}
	meal.Unit = req.Unit
	meal.Rating = req.Rating
	meal.Notes = req.Notes
	return nil
}

// Nutrition logs

func (s *MealService) CreateNutritionLog(ctx context.Context, userID uuid.UUID, req *types.NutritionLogRequest) (*models.NutritionLog, error) {
	entry := &models.NutritionLog{UserID: userID}
	if err := applyNutritionLog(entry, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, dbErr("create nutrition log", err)
	}
	return entry, nil
}

func (s *MealService) GetNutritionLog(ctx context.Context, userID, id uuid.UUID) (*models.NutritionLog, error) {
	var entry models.NutritionLog
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		return nil, dbErr("get nutrition log", err)
	}
	return &entry, nil
}

func (s *MealService) UpdateNutritionLog(ctx context.Context, userID, id uuid.UUID, req *types.NutritionLogRequest) (*models.NutritionLog, error) {
	entry, err := s.GetNutritionLog(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyNutritionLog(entry, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, dbErr("update nutrition log", err)
	}
	return entry, nil
}

func (s *MealService) DeleteNutritionLog(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.NutritionLog{})
	if res.Error != nil {
		return dbErr("delete nutrition log", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DailyNutrition sums every entry of the day. Entries are not de-duplicated.
func (s *MealService) DailyNutrition(ctx context.Context, userID uuid.UUID, day string) (*DailyNutrition, error) {
	date, err := parseDate(day)
	if err != nil {
		return nil, err
	}

	var entries []models.NutritionLog
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at").
		Find(&entries).Error
	if err != nil {
		return nil, dbErr("list nutrition logs", err)
	}

	macros := make([]nutrition.Macros, 0, len(entries))
	for i := range entries {
		macros = append(macros, entries[i].Macros())
	}
	return &DailyNutrition{
		Date:    date,
		Entries: entries,
		Totals:  nutrition.SumDailyNutrition(macros),
	}, nil
}

// GoalProgress compares the day's totals with the profile goals.
func (s *MealService) GoalProgress(ctx context.Context, userID uuid.UUID, day string) (*nutrition.GoalReport, error) {
	daily, err := s.DailyNutrition(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, dbErr("get profile", err)
	}
	report := nutrition.CompareToGoals(daily.Totals, profile.Goals())
	return &report, nil
}

func applyNutritionLog(entry *models.NutritionLog, req *types.NutritionLogRequest) error {
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}
	entry.Date = date
	entry.MealID = req.MealID
	entry.SetMacros(nutrition.Macros{
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Fiber:    req.Fiber,
		Sugar:    req.Sugar,
		Sodium:   req.Sodium,
	})
	entry.Source = req.Source
	if entry.Source == "" {
		entry.Source = "manual"
	}
	entry.Notes = req.Notes
	return nil
}

// dateRange narrows q to column in [from, to]. Empty bounds are skipped.
func dateRange(q *gorm.DB, column, from, to string) (*gorm.DB, error) {
	if from != "" {
		d, err := parseDate(from)
		if err != nil {
			return nil, err
		}
		q = q.Where(column+" >= ?", d)
	}
	if to != "" {
		d, err := parseDate(to)
		if err != nil {
			return nil, err
		}
		q = q.Where(column+" <= ?", d)
	}
	return q, nil
}

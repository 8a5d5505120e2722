package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/planner"
	"github.com/pageza/platewise/backend/internal/shopping"
	"github.com/pageza/platewise/backend/internal/types"
)

// PlanService covers meal plans and their calendar events.
type PlanService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IPlanService = (*PlanService)(nil)

func NewPlanService(db *gorm.DB, logger *zap.Logger) *PlanService {
	return &PlanService{db: db, logger: logging.OrNop(logger).Named("plans")}
}

func (s *PlanService) CreatePlan(ctx context.Context, userID uuid.UUID, req *types.MealPlanRequest) (*models.MealPlan, error) {
	plan := &models.MealPlan{UserID: userID}
	if err := applyPlan(plan, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, dbErr("create meal plan", err)
	}
	return plan, nil
}

func (s *PlanService) GetPlan(ctx context.Context, userID, id uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("date").Order("start_time") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&plan).Error
	if err != nil {
		return nil, dbErr("get meal plan", err)
	}
	return &plan, nil
}

func (s *PlanService) ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_date DESC").Find(&plans).Error; err != nil {
		return nil, dbErr("list meal plans", err)
	}
	return plans, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, userID, id uuid.UUID, req *types.MealPlanRequest) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&plan).Error; err != nil {
		return nil, dbErr("get meal plan", err)
	}
	if err := applyPlan(&plan, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&plan).Error; err != nil {
		return nil, dbErr("update meal plan", err)
	}
	return &plan, nil
}

// DeletePlan removes the plan and its events. Meals logged against it keep
// existing without the link.
func (s *PlanService) DeletePlan(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.MealPlan{})
		if res.Error != nil {
			return dbErr("delete meal plan", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("meal_plan_id = ?", id).Delete(&models.MealPlanEvent{}).Error; err != nil {
			return dbErr("delete plan events", err)
		}
		err := tx.Model(&models.Meal{}).Where("meal_plan_id = ?", id).Update("meal_plan_id", nil).Error
		return dbErr("unlink meals", err)
	})
}

func applyPlan(plan *models.MealPlan, req *types.MealPlanRequest) error {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return err
	}
	if end < start {
		return fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}
	plan.Name = strings.TrimSpace(req.Name)
	plan.StartDate = start
	plan.EndDate = end
	return nil
}

// Events

func (s *PlanService) CreateEvent(ctx context.Context, userID uuid.UUID, req *types.MealPlanEventRequest) (*models.MealPlanEvent, error) {
	event := &models.MealPlanEvent{UserID: userID}
	if err := s.applyEvent(ctx, userID, event, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, dbErr("create event", err)
	}
	return event, nil
}

func (s *PlanService) UpdateEvent(ctx context.Context, userID, id uuid.UUID, req *types.MealPlanEventRequest) (*models.MealPlanEvent, error) {
	var event models.MealPlanEvent
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&event).Error; err != nil {
		return nil, dbErr("get event", err)
	}
	if err := s.applyEvent(ctx, userID, &event, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&event).Error; err != nil {
		return nil, dbErr("update event", err)
	}
	return &event, nil
}

func (s *PlanService) DeleteEvent(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.MealPlanEvent{})
	if res.Error != nil {
		return dbErr("delete event", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PlanService) ListEvents(ctx context.Context, userID uuid.UUID, from, to string) ([]models.MealPlanEvent, error) {
	q, err := dateRange(s.db.WithContext(ctx).Preload("Recipe").Where("user_id = ?", userID), "date", from, to)
	if err != nil {
		return nil, err
	}
	var events []models.MealPlanEvent
	if err := q.Order("date").Order("start_time").Find(&events).Error; err != nil {
		return nil, dbErr("list events", err)
	}
	return events, nil
}

// Week returns the Monday-first calendar for the week containing day.
func (s *PlanService) Week(ctx context.Context, userID uuid.UUID, day string) ([]planner.Day, error) {
	date, err := parseDate(day)
	if err != nil {
		return nil, err
	}
	t, _ := date.Time()
	start, end := planner.WeekRange(t)

	events, err := s.ListEvents(ctx, userID, start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err != nil {
		return nil, err
	}

	cal := make([]planner.Event, 0, len(events))
	for _, ev := range events {
		evDate, err := ev.Date.Time()
		if err != nil {
			s.logger.Warn("skipping event with bad date", zap.String("event_id", ev.ID.String()))
			continue
		}
		title := ev.Title
		if title == "" && ev.Recipe != nil {
			title = ev.Recipe.Name
		}
		cal = append(cal, planner.Event{
			ID:        ev.ID,
			Date:      evDate,
			MealType:  ev.MealType,
			Title:     title,
			RecipeID:  ev.RecipeID,
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
		})
	}
	return planner.BucketWeek(start, cal), nil
}

func (s *PlanService) applyEvent(ctx context.Context, userID uuid.UUID, event *models.MealPlanEvent, req *types.MealPlanEventRequest) error {
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}
	for _, hhmm := range []string{req.StartTime, req.EndTime} {
		if hhmm == "" {
			continue
		}
		if _, err := time.Parse("15:04", hhmm); err != nil {
			return fmt.Errorf("%w: time %q, expected HH:MM", ErrInvalidInput, hhmm)
		}
	}
	if req.StartTime != "" && req.EndTime != "" && req.EndTime < req.StartTime {
		return fmt.Errorf("%w: end_time before start_time", ErrInvalidInput)
	}

	db := s.db.WithContext(ctx)
	if err := ownsRecipe(db, userID, req.RecipeID); err != nil {
		return err
	}
	if req.MealPlanID != nil {
		var count int64
		if err := db.Model(&models.MealPlan{}).Where("id = ? AND user_id = ?", *req.MealPlanID, userID).Count(&count).Error; err != nil {
			return dbErr("check meal plan", err)
		}
		if count == 0 {
			return fmt.Errorf("%w: meal plan %s", ErrNotFound, *req.MealPlanID)
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" && req.RecipeID == nil {
		return fmt.Errorf("%w: title or recipe_id is required", ErrInvalidInput)
	}

	event.MealPlanID = req.MealPlanID
	event.Date = date
	event.MealType = strings.ToLower(req.MealType)
	event.Title = title
	event.RecipeID = req.RecipeID
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Notes = req.Notes
	event.Recipe = nil
	if event.Title == "" {
		var recipe models.Recipe
		if err := db.Select("name").First(&recipe, "id = ?", *req.RecipeID).Error; err != nil {
			return dbErr("load recipe", err)
		}
		event.Title = recipe.Name
	}
	return nil
}

// GenerateShoppingList collects the ingredients of every recipe scheduled by
// the plan (its events and the meals linked to it), merges duplicates and
// stores the result as a new shopping list.
func (s *PlanService) GenerateShoppingList(ctx context.Context, userID, planID uuid.UUID, name string) (*models.ShoppingList, error) {
	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]float64)
	var order []uuid.UUID
	add := func(id uuid.UUID, n float64) {
		if _, ok := counts[id]; !ok {
			order = append(order, id)
		}
		counts[id] += n
	}
	for _, ev := range plan.Events {
		if ev.RecipeID != nil {
			add(*ev.RecipeID, 1)
		}
	}

	var meals []models.Meal
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND meal_plan_id = ? AND recipe_id IS NOT NULL", userID, planID).
		Order("date").
		Find(&meals).Error
	if err != nil {
		return nil, dbErr("list plan meals", err)
	}
	for _, m := range meals {
		qty := m.Quantity
		if qty <= 0 {
			qty = 1
		}
		add(*m.RecipeID, qty)
	}

	var recipes []models.Recipe
	if len(order) > 0 {
		err = preloadIngredients(s.db.WithContext(ctx)).Where("id IN ?", order).Find(&recipes).Error
		if err != nil {
			return nil, dbErr("load plan recipes", err)
		}
	}
	byID := make(map[uuid.UUID]*models.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}

	var lines []shopping.Line
	for _, id := range order {
		recipe, ok := byID[id]
		if !ok {
			continue
		}
		for _, ing := range recipe.Ingredients {
			lines = append(lines, shopping.Line{
				FoodItemID: ing.FoodItemID,
				Name:       ing.IngredientName,
				Quantity:   ing.Quantity * counts[id],
				Unit:       ing.Unit,
			})
		}
	}

	if strings.TrimSpace(name) == "" {
		name = "Shopping for " + plan.Name
	}
	list := &models.ShoppingList{UserID: userID, Name: name, MealPlanID: &plan.ID}
	for i, l := range shopping.Consolidate(lines) {
		list.Items = append(list.Items, models.ShoppingListItem{
			ItemName:   l.Name,
			Quantity:   l.Quantity,
			Unit:       l.Unit,
			FoodItemID: l.FoodItemID,
			Position:   i,
		})
	}

	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, dbErr("create shopping list", err)
	}
	s.logger.Info("generated shopping list",
		zap.String("plan_id", planID.String()),
		zap.Int("items", len(list.Items)))
	return list, nil
}

package types

import (
	"github.com/google/uuid"

	"github.com/pageza/platewise/backend/internal/planner"
)

// Auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required,min=3,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateGoalsRequest changes daily nutrition goals. Nil fields are left as
// they are.
type UpdateGoalsRequest struct {
	CalorieGoal *float64 `json:"calorie_goal" binding:"omitempty,gte=0"`
	ProteinGoal *float64 `json:"protein_goal" binding:"omitempty,gte=0"`
	CarbsGoal   *float64 `json:"carbs_goal" binding:"omitempty,gte=0"`
	FatGoal     *float64 `json:"fat_goal" binding:"omitempty,gte=0"`
	FiberGoal   *float64 `json:"fiber_goal" binding:"omitempty,gte=0"`
	SugarGoal   *float64 `json:"sugar_goal" binding:"omitempty,gte=0"`
	SodiumGoal  *float64 `json:"sodium_goal" binding:"omitempty,gte=0"`
}

// Food items

type FoodItemRequest struct {
	Name            string   `json:"name" binding:"required"`
	Brand           string   `json:"brand"`
	Barcode         string   `json:"barcode"`
	ServingSize     float64  `json:"serving_size" binding:"gte=0"`
	ServingUnit     string   `json:"serving_unit"`
	IsPublic        bool     `json:"is_public"`
	CaloriesPer100g *float64 `json:"calories_per_100g"`
	ProteinPer100g  *float64 `json:"protein_per_100g"`
	CarbsPer100g    *float64 `json:"carbs_per_100g"`
	FatPer100g      *float64 `json:"fat_per_100g"`
	FiberPer100g    *float64 `json:"fiber_per_100g"`
	SugarPer100g    *float64 `json:"sugar_per_100g"`
	SodiumPer100g   *float64 `json:"sodium_per_100g"`
}

// Recipes

type IngredientRequest struct {
	FoodItemID *uuid.UUID `json:"food_item_id"`
	Name       string     `json:"name" binding:"required"`
	Quantity   float64    `json:"quantity" binding:"gte=0"`
	Unit       string     `json:"unit"`
}

type RecipeRequest struct {
	Name            string              `json:"name" binding:"required"`
	Description     string              `json:"description"`
	Servings        int                 `json:"servings" binding:"gte=0"`
	PrepTimeMinutes int                 `json:"prep_time_minutes" binding:"gte=0"`
	CookTimeMinutes int                 `json:"cook_time_minutes" binding:"gte=0"`
	Instructions    string              `json:"instructions"`
	Tags            []string            `json:"tags"`
	MealTimes       []string            `json:"meal_times"`
	Ingredients     []IngredientRequest `json:"ingredients" binding:"dive"`
}

// Meals and nutrition logs

type MealRequest struct {
	Date       string     `json:"date" binding:"required"`
	MealType   string     `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	RecipeID   *uuid.UUID `json:"recipe_id"`
	FoodItemID *uuid.UUID `json:"food_item_id"`
	MealPlanID *uuid.UUID `json:"meal_plan_id"`
	Quantity   float64    `json:"quantity" binding:"gte=0"`
	Unit       string     `json:"unit"`
	Rating     *int       `json:"rating" binding:"omitempty,min=1,max=5"`
	Notes      string     `json:"notes"`
}

type NutritionLogRequest struct {
	Date     string     `json:"date" binding:"required"`
	MealID   *uuid.UUID `json:"meal_id"`
	Calories float64    `json:"calories" binding:"gte=0"`
	Protein  float64    `json:"protein" binding:"gte=0"`
	Carbs    float64    `json:"carbs" binding:"gte=0"`
	Fat      float64    `json:"fat" binding:"gte=0"`
	Fiber    float64    `json:"fiber" binding:"gte=0"`
	Sugar    float64    `json:"sugar" binding:"gte=0"`
	Sodium   float64    `json:"sodium" binding:"gte=0"`
	Source   string     `json:"source"`
	Notes    string     `json:"notes"`
}

// Meal plans

type MealPlanRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type MealPlanEventRequest struct {
	MealPlanID *uuid.UUID `json:"meal_plan_id"`
	Date       string     `json:"date" binding:"required"`
	MealType   string     `json:"meal_type" binding:"required"`
	Title      string     `json:"title"`
	RecipeID   *uuid.UUID `json:"recipe_id"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	Notes      string     `json:"notes"`
}

// Shopping

type ShoppingListRequest struct {
	Name       string     `json:"name" binding:"required"`
	MealPlanID *uuid.UUID `json:"meal_plan_id"`
}

type ShoppingItemRequest struct {
	ItemName      string     `json:"item_name" binding:"required"`
	Quantity      float64    `json:"quantity" binding:"gte=0"`
	Unit          string     `json:"unit"`
	CategoryID    *uuid.UUID `json:"category_id"`
	EstimatedCost *float64   `json:"estimated_cost" binding:"omitempty,gte=0"`
	ActualCost    *float64   `json:"actual_cost" binding:"omitempty,gte=0"`
	FoodItemID    *uuid.UUID `json:"food_item_id"`
	ReadyMealID   *uuid.UUID `json:"ready_meal_id"`
}

type UpdateCostRequest struct {
	EstimatedCost *float64 `json:"estimated_cost" binding:"omitempty,gte=0"`
	ActualCost    *float64 `json:"actual_cost" binding:"omitempty,gte=0"`
}

type GenerateShoppingListRequest struct {
	Name string `json:"name"`
}

// Community

type ShareRecipeRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	IsPublic *bool     `json:"is_public"`
}

type RateRecipeRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

type CommentRequest struct {
	Body            string     `json:"body" binding:"required"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
}

// Ready meals

type ReadyMealRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	MinimumStock  int     `json:"minimum_stock" binding:"gte=0"`
	Calories      float64 `json:"calories" binding:"gte=0"`
	Protein       float64 `json:"protein" binding:"gte=0"`
	Carbs         float64 `json:"carbs" binding:"gte=0"`
	Fat           float64 `json:"fat" binding:"gte=0"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// Identification

// IdentifyPhotoRequest carries an image as a URL or a data URL.
type IdentifyPhotoRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
	Hint     string `json:"hint"`
}

type BarcodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// Work schedules

// WorkScheduleRequest creates or replaces a schedule. Days left out of
// Schedule are days off. IsDefault only ever promotes; to move the default,
// mark another schedule.
type WorkScheduleRequest struct {
	Name      string               `json:"name" binding:"required"`
	Schedule  planner.WeekSchedule `json:"schedule"`
	IsDefault bool                 `json:"is_default"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pageza/platewise/backend/internal/nutrition"
)

// Meal records something the user ate or cooked on a day.
type Meal struct {
	Base
	UserID     uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Date       Date       `gorm:"type:date;not null;index" json:"date"`
	MealType   string     `gorm:"size:20;not null" json:"meal_type"`
	RecipeID   *uuid.UUID `gorm:"type:varchar(36);index" json:"recipe_id,omitempty"`
	Recipe     *Recipe    `gorm:"constraint:OnDelete:SET NULL" json:"recipe,omitempty"`
	FoodItemID *uuid.UUID `gorm:"type:varchar(36)" json:"food_item_id,omitempty"`
	MealPlanID *uuid.UUID `gorm:"type:varchar(36);index" json:"meal_plan_id,omitempty"`
	Quantity   float64    `gorm:"not null;default:1" json:"quantity"`
	Unit       string     `gorm:"size:20" json:"unit"`
	Rating     *int       `json:"rating,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
}

// MealPhoto is an uploaded photo of a meal and the AI estimate made from it.
type MealPhoto struct {
	Base
	UserID              uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	MealID              *uuid.UUID     `gorm:"type:varchar(36)" json:"meal_id,omitempty"`
	ObjectKey           string         `gorm:"size:512;not null" json:"-"`
	ImageURL            string         `gorm:"-" json:"image_url"`
	Description         string         `gorm:"type:text" json:"description,omitempty"`
	AIAnalyzedNutrition datatypes.JSON `json:"ai_analyzed_nutrition,omitempty"`
	AnalyzedAt          *time.Time     `json:"analyzed_at,omitempty"`
}

// NutritionLog is one consumed-macros entry for a day.
type NutritionLog struct {
	Base
	UserID   uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_nutrition_user_date" json:"user_id"`
	Date     Date       `gorm:"type:date;not null;index:idx_nutrition_user_date" json:"date"`
	MealID   *uuid.UUID `gorm:"type:varchar(36)" json:"meal_id,omitempty"`
	Calories float64    `json:"calories"`
	Protein  float64    `json:"protein"`
	Carbs    float64    `json:"carbs"`
	Fat      float64    `json:"fat"`
	Fiber    float64    `json:"fiber"`
	Sugar    float64    `json:"sugar"`
	Sodium   float64    `json:"sodium"`
	Source   string     `gorm:"size:20;not null;default:'manual'" json:"source"`
	Notes    string     `gorm:"type:text" json:"notes,omitempty"`
}

// Macros returns the entry as a macro tuple.
func (n *NutritionLog) Macros() nutrition.Macros {
	return nutrition.Macros{
		Calories: n.Calories,
		Protein:  n.Protein,
		Carbs:    n.Carbs,
		Fat:      n.Fat,
		Fiber:    n.Fiber,
		Sugar:    n.Sugar,
		Sodium:   n.Sodium,
	}
}

// SetMacros copies m into the entry.
func (n *NutritionLog) SetMacros(m nutrition.Macros) {
	n.Calories = m.Calories
	n.Protein = m.Protein
	n.Carbs = m.Carbs
	n.Fat = m.Fat
	n.Fiber = m.Fiber
	n.Sugar = m.Sugar
	n.Sodium = m.Sodium
}

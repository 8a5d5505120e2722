package models

import (
	"github.com/google/uuid"
)

type MealPlan struct {
	Base
	UserID    uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	StartDate Date            `gorm:"type:date;not null" json:"start_date"`
	EndDate   Date            `gorm:"type:date;not null" json:"end_date"`
	Events    []MealPlanEvent `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
}

// MealPlanEvent is a calendar slot, optionally bound to a recipe.
type MealPlanEvent struct {
	Base
	UserID     uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_event_user_date" json:"user_id"`
	MealPlanID *uuid.UUID `gorm:"type:varchar(36);index" json:"meal_plan_id,omitempty"`
	Date       Date       `gorm:"type:date;not null;index:idx_event_user_date" json:"date"`
	MealType   string     `gorm:"size:20;not null" json:"meal_type"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	RecipeID   *uuid.UUID `gorm:"type:varchar(36)" json:"recipe_id,omitempty"`
	Recipe     *Recipe    `gorm:"constraint:OnDelete:SET NULL" json:"recipe,omitempty"`
	StartTime  string     `gorm:"size:5" json:"start_time,omitempty"`
	EndTime    string     `gorm:"size:5" json:"end_time,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
}

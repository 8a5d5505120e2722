package models

import (
	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

type Recipe struct {
	Base
	UserID          uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name            string             `gorm:"size:255;not null" json:"name"`
	Description     string             `gorm:"type:text" json:"description"`
	Servings        int                `gorm:"not null;default:1" json:"servings"`
	PrepTimeMinutes int                `json:"prep_time_minutes"`
	CookTimeMinutes int                `json:"cook_time_minutes"`
	Instructions    string             `gorm:"type:text" json:"instructions"`
	Tags            StringList         `gorm:"type:text" json:"tags"`
	MealTimes       StringList         `gorm:"type:text" json:"meal_times"`
	Ingredients     []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
	Embedding       pgvector.Vector    `gorm:"type:vector(64)" json:"-"`
}

type RecipeIngredient struct {
	Base
	RecipeID       uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	FoodItemID     *uuid.UUID `gorm:"type:varchar(36)" json:"food_item_id,omitempty"`
	FoodItem       *FoodItem  `gorm:"constraint:OnDelete:SET NULL" json:"food_item,omitempty"`
	IngredientName string     `gorm:"size:255;not null" json:"ingredient_name"`
	Quantity       float64    `gorm:"not null" json:"quantity"`
	Unit           string     `gorm:"size:20" json:"unit"`
	Position       int        `json:"position"`
}

package models

import (
	"github.com/google/uuid"
)

type ShoppingCategory struct {
	Base
	Name      string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

type ShoppingList struct {
	Base
	UserID     uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name       string             `gorm:"size:255;not null" json:"name"`
	MealPlanID *uuid.UUID         `gorm:"type:varchar(36)" json:"meal_plan_id,omitempty"`
	Items      []ShoppingListItem `gorm:"foreignKey:ShoppingListID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type ShoppingListItem struct {
	Base
	ShoppingListID uuid.UUID         `gorm:"type:varchar(36);not null;index" json:"shopping_list_id"`
	ItemName       string            `gorm:"size:255;not null" json:"item_name"`
	Quantity       float64           `gorm:"not null;default:1" json:"quantity"`
	Unit           string            `gorm:"size:20" json:"unit"`
	CategoryID     *uuid.UUID        `gorm:"type:varchar(36)" json:"category_id,omitempty"`
	Category       *ShoppingCategory `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	EstimatedCost  *float64          `json:"estimated_cost,omitempty"`
	ActualCost     *float64          `json:"actual_cost,omitempty"`
	IsPurchased    bool              `gorm:"not null;default:false" json:"is_purchased"`
	FoodItemID     *uuid.UUID        `gorm:"type:varchar(36)" json:"food_item_id,omitempty"`
	ReadyMealID    *uuid.UUID        `gorm:"type:varchar(36)" json:"ready_meal_id,omitempty"`
	Position       int               `json:"position"`
}

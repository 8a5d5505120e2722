package models

import (
	"github.com/google/uuid"
)

// SharedRecipe publishes a recipe to the community feed.
type SharedRecipe struct {
	Base
	RecipeID      uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"recipe_id"`
	Recipe        *Recipe   `gorm:"constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	IsPublic      bool      `gorm:"not null" json:"is_public"`
	Featured      bool      `gorm:"not null;default:false" json:"featured"`
	AverageRating float64   `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings  int       `gorm:"not null;default:0" json:"total_ratings"`
}

// RecipeRating is one user's rating of a shared recipe; a user has at most one.
type RecipeRating struct {
	Base
	SharedRecipeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_rating_user" json:"shared_recipe_id"`
	UserID         uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_rating_user" json:"user_id"`
	Rating         int       `gorm:"not null" json:"rating"`
	Review         string    `gorm:"type:text" json:"review,omitempty"`
}

type RecipeComment struct {
	Base
	SharedRecipeID  uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"shared_recipe_id"`
	UserID          uuid.UUID       `gorm:"type:varchar(36);not null" json:"user_id"`
	ParentCommentID *uuid.UUID      `gorm:"type:varchar(36);index" json:"parent_comment_id,omitempty"`
	Body            string          `gorm:"type:text;not null" json:"body"`
	Replies         []RecipeComment `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/nutrition"
)

type User struct {
	Base
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

// Profile holds per-user settings: daily nutrition goals and the linked
// Fitbit account.
type Profile struct {
	Base
	UserID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Username string    `gorm:"size:50;not null;uniqueIndex" json:"username"`

	CalorieGoal float64 `json:"calorie_goal"`
	ProteinGoal float64 `json:"protein_goal"`
	CarbsGoal   float64 `json:"carbs_goal"`
	FatGoal     float64 `json:"fat_goal"`
	FiberGoal   float64 `json:"fiber_goal"`
	SugarGoal   float64 `json:"sugar_goal"`
	SodiumGoal  float64 `json:"sodium_goal"`

	FitbitUserID         string     `gorm:"size:64" json:"fitbit_user_id,omitempty"`
	FitbitAccessToken    string     `gorm:"type:text" json:"-"`
	FitbitRefreshToken   string     `gorm:"type:text" json:"-"`
	FitbitTokenExpiresAt *time.Time `json:"fitbit_token_expires_at,omitempty"`
	FitbitConnectedAt    *time.Time `json:"fitbit_connected_at,omitempty"`
}

// Goals returns the daily goals as a macro tuple.
func (p *Profile) Goals() nutrition.Macros {
	return nutrition.Macros{
		Calories: p.CalorieGoal,
		Protein:  p.ProteinGoal,
		Carbs:    p.CarbsGoal,
		Fat:      p.FatGoal,
		Fiber:    p.FiberGoal,
		Sugar:    p.SugarGoal,
		Sodium:   p.SodiumGoal,
	}
}

// FitbitConnected reports whether tokens are stored.
func (p *Profile) FitbitConnected() bool {
	return p.FitbitAccessToken != ""
}

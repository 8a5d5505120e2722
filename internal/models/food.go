package models

import (
	"github.com/google/uuid"

	"github.com/pageza/platewise/backend/internal/nutrition"
)

// FoodItem is a food with per-100g macros. Items without an owner were
// imported from Open Food Facts and are shared by everyone.
type FoodItem struct {
	Base
	UserID      *uuid.UUID `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	Name        string     `gorm:"size:255;not null;index" json:"name"`
	Brand       string     `gorm:"size:255" json:"brand,omitempty"`
	Barcode     *string    `gorm:"size:14;uniqueIndex" json:"barcode,omitempty"`
	ServingSize float64    `gorm:"not null;default:100" json:"serving_size"`
	ServingUnit string     `gorm:"size:20;not null;default:'g'" json:"serving_unit"`
	IsPublic    bool       `gorm:"not null;default:false" json:"is_public"`
	Source      string     `gorm:"size:30;not null;default:'user'" json:"source"`

	CaloriesPer100g *float64 `json:"calories_per_100g"`
	ProteinPer100g  *float64 `json:"protein_per_100g"`
	CarbsPer100g    *float64 `json:"carbs_per_100g"`
	FatPer100g      *float64 `json:"fat_per_100g"`
	FiberPer100g    *float64 `json:"fiber_per_100g"`
	SugarPer100g    *float64 `json:"sugar_per_100g"`
	SodiumPer100g   *float64 `json:"sodium_per_100g"`
}

// Per100g exposes the nullable macro columns.
func (f *FoodItem) Per100g() nutrition.Per100g {
	return nutrition.Per100g{
		Calories: f.CaloriesPer100g,
		Protein:  f.ProteinPer100g,
		Carbs:    f.CarbsPer100g,
		Fat:      f.FatPer100g,
		Fiber:    f.FiberPer100g,
		Sugar:    f.SugarPer100g,
		Sodium:   f.SodiumPer100g,
	}
}

// SetPer100g copies p into the macro columns.
func (f *FoodItem) SetPer100g(p nutrition.Per100g) {
	f.CaloriesPer100g = p.Calories
	f.ProteinPer100g = p.Protein
	f.CarbsPer100g = p.Carbs
	f.FatPer100g = p.Fat
	f.FiberPer100g = p.Fiber
	f.SugarPer100g = p.Sugar
	f.SodiumPer100g = p.Sodium
}

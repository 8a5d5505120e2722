package models

import (
	"github.com/google/uuid"
)

// ReadyMeal is a pre-cooked or frozen meal kept in stock. Macros are per
// portion.
type ReadyMeal struct {
	Base
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	MinimumStock  int       `gorm:"not null;default:0" json:"minimum_stock"`
	Calories      float64   `json:"calories"`
	Protein       float64   `json:"protein"`
	Carbs         float64   `json:"carbs"`
	Fat           float64   `json:"fat"`
}

// LowStock reports whether stock has fallen to the minimum or below.
func (r *ReadyMeal) LowStock() bool {
	return r.StockQuantity <= r.MinimumStock
}

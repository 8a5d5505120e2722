// Package vision turns a food photo into candidate food-search terms and,
// where the backend supports it, a rough nutrition estimate.
package vision

import (
	"context"
	"errors"

	"github.com/pageza/platewise/backend/internal/nutrition"
)

var (
	ErrUnavailable       = errors.New("vision service unavailable")
	ErrUnsupported       = errors.New("operation not supported by this vision backend")
	ErrRateLimited       = errors.New("vision provider rate limited")
	ErrMalformedResponse = errors.New("vision provider returned an unexpected response")
)

// Confidence is the coarse label providers attach to an identification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Image is either a URL (http(s) or data:) or raw bytes.
type Image struct {
	URL      string
	Data     []byte
	MIMEType string
}

// Identification is the result of looking at a food photo.
type Identification struct {
	Foods       []string   `json:"identifiedFoods"`
	Confidence  Confidence `json:"confidence"`
	SearchTerms []string   `json:"searchTerms"`
	Notes       string     `json:"notes,omitempty"`
	Provider    string     `json:"provider"`
}

// MealEstimate is a nutrition estimate for a plated meal.
type MealEstimate struct {
	Nutrition   nutrition.Macros `json:"estimatedNutrition"`
	Foods       []string         `json:"identifiedFoods"`
	PortionSize string           `json:"portionSize,omitempty"`
	Confidence  Confidence       `json:"confidence"`
	Notes       string           `json:"notes,omitempty"`
	Provider    string           `json:"provider"`
}

// Identifier is implemented by each vision backend.
type Identifier interface {
	Name() string
	IdentifyFoods(ctx context.Context, img Image, hint string) (*Identification, error)
	EstimateMeal(ctx context.Context, img Image, description string) (*MealEstimate, error)
}

// FallbackSearchTerms are offered when no backend produced usable output.
var FallbackSearchTerms = []string{"oats", "cereal", "bread", "milk", "pasta"}

// Fallback is the identification returned when every backend failed.
func Fallback(notes string) *Identification {
	terms := make([]string, len(FallbackSearchTerms))
	copy(terms, FallbackSearchTerms)
	return &Identification{
		Foods:       []string{"Unknown food items"},
		Confidence:  ConfidenceLow,
		SearchTerms: terms,
		Notes:       notes,
		Provider:    "fallback",
	}
}

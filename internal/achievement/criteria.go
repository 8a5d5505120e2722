// Package achievement turns per-user activity counters into achievement
// progress and decides which achievements have just been earned.
package achievement

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCriteria is returned when a criteria blob names a kind outside
// the closed set below.
var ErrUnknownCriteria = errors.New("unknown achievement criteria type")

// Kind selects which counter drives an achievement.
type Kind int

const (
	KindUnknown Kind = iota
	KindMealCount
	KindRecipeCount
	KindPhotoCount
	KindShoppingLists
	KindNutritionDays
	KindUniqueRecipes
	KindCookingStreak
	KindPlanningWeeks
)

var kindNames = map[Kind]string{
	KindMealCount:     "meal_count",
	KindRecipeCount:   "recipe_count",
	KindPhotoCount:    "photo_count",
	KindShoppingLists: "shopping_lists",
	KindNutritionDays: "nutrition_days",
	KindUniqueRecipes: "unique_recipes",
	KindCookingStreak: "cooking_streak",
	KindPlanningWeeks: "planning_weeks",
}

// kindAliases also accepts the long counter names used in reports.
var kindAliases = map[string]Kind{
	"meal_count":               KindMealCount,
	"recipe_count":             KindRecipeCount,
	"photo_count":              KindPhotoCount,
	"shopping_lists":           KindShoppingLists,
	"shopping_lists_completed": KindShoppingLists,
	"nutrition_days":           KindNutritionDays,
	"nutrition_days_tracked":   KindNutritionDays,
	"unique_recipes":           KindUniqueRecipes,
	"unique_recipes_tried":     KindUniqueRecipes,
	"cooking_streak":           KindCookingStreak,
	"cooking_streak_days":      KindCookingStreak,
	"planning_weeks":           KindPlanningWeeks,
}

// Kinds lists every known kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindMealCount, KindRecipeCount, KindPhotoCount, KindShoppingLists,
		KindNutritionDays, KindUniqueRecipes, KindCookingStreak, KindPlanningWeeks,
	}
}

// ParseKind maps a criteria type string to a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownCriteria, s)
	}
	return k, nil
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Criteria is the typed form of an achievement's {type, target} blob.
type Criteria struct {
	Kind   Kind    `json:"type"`
	Target float64 `json:"target"`
}

type rawCriteria struct {
	Type   string   `json:"type"`
	Target *float64 `json:"target"`
}

// ParseCriteria decodes a stored criteria blob. A missing target defaults to 1.
func ParseCriteria(data []byte) (Criteria, error) {
	var raw rawCriteria
	if err := json.Unmarshal(data, &raw); err != nil {
		return Criteria{}, fmt.Errorf("failed to decode criteria: %w", err)
	}

	kind, err := ParseKind(raw.Type)
	if err != nil {
		return Criteria{}, err
	}

	target := 1.0
	if raw.Target != nil {
		target = *raw.Target
	}

	return Criteria{Kind: kind, Target: target}, nil
}

package achievement

// Counters holds the per-user activity counts that achievements are measured
// against.
type Counters struct {
	Meals             int64 `json:"meal_count"`
	Recipes           int64 `json:"recipe_count"`
	Photos            int64 `json:"photo_count"`
	ShoppingLists     int64 `json:"shopping_lists_completed"`
	NutritionDays     int64 `json:"nutrition_days_tracked"`
	UniqueRecipes     int64 `json:"unique_recipes_tried"`
	CookingStreakDays int64 `json:"cooking_streak_days"`
	PlanningWeeks     int64 `json:"planning_weeks"`
}

// Value returns the counter selected by k, or 0 for KindUnknown.
func (c Counters) Value(k Kind) int64 {
	switch k {
	case KindMealCount:
		return c.Meals
	case KindRecipeCount:
		return c.Recipes
	case KindPhotoCount:
		return c.Photos
	case KindShoppingLists:
		return c.ShoppingLists
	case KindNutritionDays:
		return c.NutritionDays
	case KindUniqueRecipes:
		return c.UniqueRecipes
	case KindCookingStreak:
		return c.CookingStreakDays
	case KindPlanningWeeks:
		return c.PlanningWeeks
	}
	return 0
}

// Progress returns counter/target as a percentage in [0, 100]. With a
// non-positive target any activity at all counts as complete.
func Progress(counter int64, target float64) float64 {
	if target <= 0 {
		if counter > 0 {
			return 100
		}
		return 0
	}

	p := float64(counter) / target * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

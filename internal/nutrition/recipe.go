package nutrition

// Ingredient is one line of a recipe. Food is nil when the line is free text
// that was never matched to a food item.
type Ingredient struct {
	Quantity float64
	Unit     string
	Food     *Macros
}

// RecipeNutrition holds the whole-recipe total and the per-serving share.
type RecipeNutrition struct {
	Total      Macros `json:"total"`
	PerServing Macros `json:"per_serving"`
}

// ComputeRecipeNutrition sums quantity/100 of each resolved food's per-100g
// macros. Unit is not converted: a quantity in "cup" is still read as grams.
// Servings below 1 are treated as 1.
func ComputeRecipeNutrition(ingredients []Ingredient, servings int) RecipeNutrition {
	var total Macros
	for _, ing := range ingredients {
		if ing.Food == nil {
			continue
		}
		total = total.Add(ing.Food.Scale(ing.Quantity / 100))
	}

	divisor := servings
	if divisor < 1 {
		divisor = 1
	}

	return RecipeNutrition{
		Total:      total,
		PerServing: total.Scale(1 / float64(divisor)),
	}
}

package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestComputeRecipeNutrition(t *testing.T) {
	t.Run("resolved and unresolved ingredients", func(t *testing.T) {
		ingredients := []Ingredient{
			{Quantity: 200, Unit: "g", Food: &Macros{Calories: 50}},
			{Quantity: 50, Unit: "g"},
		}

		got := ComputeRecipeNutrition(ingredients, 2)

		assert.InDelta(t, 100, got.Total.Calories, 1e-9)
		assert.InDelta(t, 50, got.PerServing.Calories, 1e-9)
		assert.Zero(t, got.Total.Protein)
	})

	t.Run("sums every macro field", func(t *testing.T) {
		food := Macros{Calories: 100, Protein: 10, Carbs: 20, Fat: 5, Fiber: 2, Sugar: 4, Sodium: 300}
		ingredients := []Ingredient{
			{Quantity: 150, Food: &food},
			{Quantity: 50, Food: &food},
		}

		got := ComputeRecipeNutrition(ingredients, 4)

		want := food.Scale(2)
		assert.InDelta(t, want.Calories, got.Total.Calories, 1e-9)
		assert.InDelta(t, want.Protein, got.Total.Protein, 1e-9)
		assert.InDelta(t, want.Carbs, got.Total.Carbs, 1e-9)
		assert.InDelta(t, want.Fat, got.Total.Fat, 1e-9)
		assert.InDelta(t, want.Fiber, got.Total.Fiber, 1e-9)
		assert.InDelta(t, want.Sugar, got.Total.Sugar, 1e-9)
		assert.InDelta(t, want.Sodium, got.Total.Sodium, 1e-9)
		assert.InDelta(t, want.Calories/4, got.PerServing.Calories, 1e-9)
	})

	t.Run("zero servings does not divide by zero", func(t *testing.T) {
		ingredients := []Ingredient{{Quantity: 100, Food: &Macros{Calories: 80}}}

		got := ComputeRecipeNutrition(ingredients, 0)

		assert.InDelta(t, 80, got.Total.Calories, 1e-9)
		assert.InDelta(t, 80, got.PerServing.Calories, 1e-9)
	})

	t.Run("units are not converted", func(t *testing.T) {
		ingredients := []Ingredient{{Quantity: 2, Unit: "cup", Food: &Macros{Calories: 100}}}

		got := ComputeRecipeNutrition(ingredients, 1)

		assert.InDelta(t, 2, got.Total.Calories, 1e-9)
	})

	t.Run("empty recipe", func(t *testing.T) {
		got := ComputeRecipeNutrition(nil, 3)
		assert.True(t, got.Total.IsZero())
		assert.True(t, got.PerServing.IsZero())
	})
}

func TestPer100gTreatsNilAsZero(t *testing.T) {
	p := Per100g{Calories: ptr(250), Protein: nil, Sodium: ptr(12)}

	m := p.Macros()

	assert.Equal(t, Macros{Calories: 250, Sodium: 12}, m)
}

func TestSumDailyNutrition(t *testing.T) {
	assert.Equal(t, Macros{}, SumDailyNutrition(nil))
	assert.Equal(t, Macros{}, SumDailyNutrition([]Macros{}))

	entry := Macros{Calories: 300, Protein: 20}
	got := SumDailyNutrition([]Macros{entry, entry, {Fat: 7}})

	assert.Equal(t, Macros{Calories: 600, Protein: 40, Fat: 7}, got)
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		goal    float64
		want    float64
	}{
		{"half way", 1000, 2000, 50},
		{"over goal clamps", 2500, 2000, 100},
		{"zero goal", 500, 0, 0},
		{"negative goal", 500, -10, 0},
		{"negative current", -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GoalProgress(tt.current, tt.goal), 1e-9)
		})
	}
}

func TestCompareToGoals(t *testing.T) {
	report := CompareToGoals(
		Macros{Calories: 1500, Protein: 150},
		Macros{Calories: 2000, Protein: 100, Fat: 0},
	)

	assert.InDelta(t, 75, report.Progress.Calories, 1e-9)
	assert.InDelta(t, 100, report.Progress.Protein, 1e-9)
	assert.Zero(t, report.Progress.Fat)
}

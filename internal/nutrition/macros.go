// Package nutrition derives macro totals from recipes, food items and daily logs.
package nutrition

// Macros is the nutrient tuple tracked for every food, recipe and log entry.
// Sodium is in milligrams, everything else in grams except Calories (kcal).
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// Add returns the field-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
		Fiber:    m.Fiber + o.Fiber,
		Sugar:    m.Sugar + o.Sugar,
		Sodium:   m.Sodium + o.Sodium,
	}
}

// Scale multiplies every field by f.
func (m Macros) Scale(f float64) Macros {
	return Macros{
		Calories: m.Calories * f,
		Protein:  m.Protein * f,
		Carbs:    m.Carbs * f,
		Fat:      m.Fat * f,
		Fiber:    m.Fiber * f,
		Sugar:    m.Sugar * f,
		Sodium:   m.Sodium * f,
	}
}

// IsZero reports whether every field is zero.
func (m Macros) IsZero() bool {
	return m == Macros{}
}

// Per100g is the nullable per-100g view stored on food items. A nil field
// contributes nothing.
type Per100g struct {
	Calories *float64
	Protein  *float64
	Carbs    *float64
	Fat      *float64
	Fiber    *float64
	Sugar    *float64
	Sodium   *float64
}

// Macros resolves the nullable fields, treating nil as zero.
func (p Per100g) Macros() Macros {
	return Macros{
		Calories: deref(p.Calories),
		Protein:  deref(p.Protein),
		Carbs:    deref(p.Carbs),
		Fat:      deref(p.Fat),
		Fiber:    deref(p.Fiber),
		Sugar:    deref(p.Sugar),
		Sodium:   deref(p.Sodium),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

package nutrition

// GoalProgress returns current as a percentage of goal, clamped to [0, 100].
// A goal of zero or less yields 0.
func GoalProgress(current, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := current / goal * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// GoalReport pairs the consumed amount, the goal and the clamped percentage
// for each macro.
type GoalReport struct {
	Consumed Macros `json:"consumed"`
	Goals    Macros `json:"goals"`
	Progress Macros `json:"progress"`
}

// CompareToGoals builds a GoalReport for one day's consumption.
func CompareToGoals(consumed, goals Macros) GoalReport {
	return GoalReport{
		Consumed: consumed,
		Goals:    goals,
		Progress: Macros{
			Calories: GoalProgress(consumed.Calories, goals.Calories),
			Protein:  GoalProgress(consumed.Protein, goals.Protein),
			Carbs:    GoalProgress(consumed.Carbs, goals.Carbs),
			Fat:      GoalProgress(consumed.Fat, goals.Fat),
			Fiber:    GoalProgress(consumed.Fiber, goals.Fiber),
			Sugar:    GoalProgress(consumed.Sugar, goals.Sugar),
			Sodium:   GoalProgress(consumed.Sodium, goals.Sodium),
		},
	}
}

package achievement

import (
	"github.com/google/uuid"
)

// Definition is an achievement type with its criteria already parsed.
// Criteria.Kind is KindUnknown when the stored blob could not be parsed.
type Definition struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Criteria     Criteria  `json:"criteria"`
	RewardPoints int       `json:"reward_points"`
}

// Status is a Definition evaluated against one user's counters.
type Status struct {
	Definition
	Current   int64   `json:"current"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
	Awarded   bool    `json:"awarded"`
}

// Evaluate computes a Status for every definition and returns, separately,
// the definitions that reached 100% but are not yet in awarded.
// Definitions with an unknown kind never progress.
func Evaluate(defs []Definition, counters Counters, awarded map[uuid.UUID]bool) ([]Status, []Definition) {
	statuses := make([]Status, 0, len(defs))
	var newly []Definition

	for _, def := range defs {
		st := Status{Definition: def, Awarded: awarded[def.ID]}
		if def.Criteria.Kind != KindUnknown {
			st.Current = counters.Value(def.Criteria.Kind)
			st.Progress = Progress(st.Current, def.Criteria.Target)
			st.Completed = st.Progress >= 100
		}
		if st.Completed && !st.Awarded {
			newly = append(newly, def)
		}
		statuses = append(statuses, st)
	}

	return statuses, newly
}

// TotalPoints sums reward points over every awarded status.
func TotalPoints(statuses []Status) int {
	total := 0
	for _, st := range statuses {
		if st.Awarded {
			total += st.RewardPoints
		}
	}
	return total
}

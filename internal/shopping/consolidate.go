package shopping

import (
	"strings"

	"github.com/google/uuid"
)

// Line is an ingredient requirement waiting to become a shopping-list item.
type Line struct {
	FoodItemID *uuid.UUID
	Name       string
	Quantity   float64
	Unit       string
}

// Consolidate merges lines for the same food (by food item id, else by
// case-insensitive name) and unit, summing quantities. Output follows first
// appearance. Different units of the same food stay separate.
func Consolidate(lines []Line) []Line {
	index := make(map[string]int)
	var out []Line

	for _, l := range lines {
		name := strings.TrimSpace(l.Name)
		if name == "" && l.FoodItemID == nil {
			continue
		}

		key := "n:" + strings.ToLower(name)
		if l.FoodItemID != nil {
			key = "f:" + l.FoodItemID.String()
		}
		key += "|" + strings.ToLower(strings.TrimSpace(l.Unit))

		if i, ok := index[key]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[key] = len(out)
		l.Name = name
		out = append(out, l)
	}

	return out
}

// Package shopping groups shopping-list items for display and totals their
// cost.
package shopping

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// UncategorizedName labels the bucket for items without a category.
const UncategorizedName = "Uncategorized"

// Category is the display grouping an item may be tagged with.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
}

// Item is one shopping-list line.
type Item struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit,omitempty"`
	Category      *Category `json:"category,omitempty"`
	EstimatedCost *float64  `json:"estimated_cost,omitempty"`
	ActualCost    *float64  `json:"actual_cost,omitempty"`
	Purchased     bool      `json:"purchased"`
}

// Group is one category bucket.
type Group struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Category   string     `json:"category"`
	SortOrder  int        `json:"sort_order"`
	Items      []Item     `json:"items"`

	uncategorized bool
}

// GroupByCategory partitions items by category and orders the buckets by
// sort order. Categories are told apart by ID; only ID-less ones fall back to
// their name. Ties keep first-appearance order, items keep input order,
// and the Uncategorized bucket always comes last.
func GroupByCategory(items []Item) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, it := range items {
		key := "\x00uncategorized"
		g := Group{Category: UncategorizedName, SortOrder: math.MaxInt, uncategorized: true}
		if c := it.Category; c != nil {
			g = Group{Category: c.Name, SortOrder: c.SortOrder}
			if c.ID != uuid.Nil {
				id := c.ID
				key, g.CategoryID = "id:"+id.String(), &id
			} else {
				key = "name:" + c.Name
			}
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, g)
		}
		groups[i].Items = append(groups[i].Items, it)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].uncategorized != groups[j].uncategorized {
			return groups[j].uncategorized
		}
		return groups[i].SortOrder < groups[j].SortOrder
	})

	return groups
}

package shopping

// ItemCost is the actual cost when recorded, else the estimate, else 0.
func ItemCost(it Item) float64 {
	switch {
	case it.ActualCost != nil:
		return *it.ActualCost
	case it.EstimatedCost != nil:
		return *it.EstimatedCost
	}
	return 0
}

// TotalCost re-sums every item. Purchased items are included.
func TotalCost(items []Item) float64 {
	total := 0.0
	for _, it := range items {
		total += ItemCost(it)
	}
	return total
}

// Summary is the grouped view of a list together with its totals.
type Summary struct {
	Groups         []Group `json:"groups"`
	TotalCost      float64 `json:"total_cost"`
	ItemCount      int     `json:"item_count"`
	PurchasedCount int     `json:"purchased_count"`
}

// Summarize groups items and totals them in one pass over the snapshot.
func Summarize(items []Item) Summary {
	s := Summary{
		Groups:    GroupByCategory(items),
		TotalCost: TotalCost(items),
		ItemCount: len(items),
	}
	for _, it := range items {
		if it.Purchased {
			s.PurchasedCount++
		}
	}
	return s
}

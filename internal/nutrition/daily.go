package nutrition

// SumDailyNutrition adds up every entry. Entries are independent: two rows
// for the same meal both count.
func SumDailyNutrition(entries []Macros) Macros {
	var total Macros
	for _, e := range entries {
		total = total.Add(e)
	}
	return total
}

package shopping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cost(v float64) *float64 { return &v }

func names(g Group) []string {
	out := make([]string, 0, len(g.Items))
	for _, it := range g.Items {
		out = append(out, it.Name)
	}
	return out
}

func TestGroupByCategory(t *testing.T) {
	produce := &Category{Name: "Produce", SortOrder: 1}
	dairy := &Category{Name: "Dairy", SortOrder: 0}
	bakery := &Category{Name: "Bakery", SortOrder: 5}

	items := []Item{
		{Name: "apples", Category: produce},
		{Name: "foil"},
		{Name: "milk", Category: dairy},
		{Name: "bananas", Category: produce},
		{Name: "tape"},
		{Name: "bread", Category: bakery},
		{Name: "cheese", Category: dairy},
	}

	groups := GroupByCategory(items)

	got := make(map[string][]string)
	var order []string
	for _, g := range groups {
		order = append(order, g.Category)
		got[g.Category] = names(g)
	}

	want := map[string][]string{
		"Dairy":           {"milk", "cheese"},
		"Produce":         {"apples", "bananas"},
		"Bakery":          {"bread"},
		UncategorizedName: {"foil", "tape"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grouped items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Dairy", "Produce", "Bakery", UncategorizedName}, order)
}

func TestGroupByCategoryUncategorizedAlwaysLast(t *testing.T) {
	items := []Item{
		{Name: "loose"},
		{Name: "late", Category: &Category{Name: "Misc", SortOrder: int(^uint(0) >> 1)}},
	}

	groups := GroupByCategory(items)

	require.Len(t, groups, 2)
	assert.Equal(t, "Misc", groups[0].Category)
	assert.Equal(t, UncategorizedName, groups[1].Category)
}

func TestGroupByCategoryEqualSortOrderKeepsFirstAppearance(t *testing.T) {
	items := []Item{
		{Name: "b", Category: &Category{Name: "Beta", SortOrder: 2}},
		{Name: "a", Category: &Category{Name: "Alpha", SortOrder: 2}},
	}

	groups := GroupByCategory(items)

	assert.Equal(t, "Beta", groups[0].Category)
	assert.Equal(t, "Alpha", groups[1].Category)
}

func TestGroupByCategoryKeysOnID(t *testing.T) {
	local := &Category{ID: uuid.New(), Name: "Deli", SortOrder: 9}
	store := &Category{ID: uuid.New(), Name: "Deli", SortOrder: 1}
	items := []Item{
		{Name: "olives", Category: local},
		{Name: "ham", Category: store},
		{Name: "salami", Category: local},
	}

	groups := GroupByCategory(items)

	require.Len(t, groups, 2)
	assert.Equal(t, store.ID, *groups[0].CategoryID)
	assert.Equal(t, 1, groups[0].SortOrder)
	assert.Equal(t, []string{"ham"}, names(groups[0]))
	assert.Equal(t, local.ID, *groups[1].CategoryID)
	assert.Equal(t, 9, groups[1].SortOrder)
	assert.Equal(t, []string{"olives", "salami"}, names(groups[1]))
	assert.Equal(t, "Deli", groups[1].Category)
}

func TestGroupByCategoryEmpty(t *testing.T) {
	assert.Empty(t, GroupByCategory(nil))
}

func TestTotalCost(t *testing.T) {
	items := []Item{
		{ActualCost: cost(2.50)},
		{EstimatedCost: cost(1.00), ActualCost: nil},
		{},
	}

	assert.InDelta(t, 3.50, TotalCost(items), 1e-9)
}

func TestTotalCostPrefersActualEvenWhenZero(t *testing.T) {
	items := []Item{{EstimatedCost: cost(4), ActualCost: cost(0)}}

	assert.Zero(t, TotalCost(items))
}

func TestPurchasedDoesNotAffectTotals(t *testing.T) {
	items := []Item{
		{Name: "a", EstimatedCost: cost(3), Category: &Category{Name: "X"}},
		{Name: "b", ActualCost: cost(2)},
	}
	before := Summarize(items)

	items[0].Purchased = true
	after := Summarize(items)

	assert.Equal(t, before.TotalCost, after.TotalCost)
	assert.Equal(t, 1, after.PurchasedCount)
	if diff := cmp.Diff(names(before.Groups[0]), names(after.Groups[0])); diff != "" {
		t.Errorf("grouping changed after purchase (-before +after):\n%s", diff)
	}
}

func TestConsolidate(t *testing.T) {
	oats := uuid.New()

	lines := []Line{
		{FoodItemID: &oats, Name: "Oats", Quantity: 100, Unit: "g"},
		{Name: "Eggs", Quantity: 2, Unit: "piece"},
		{FoodItemID: &oats, Name: "rolled oats", Quantity: 50, Unit: "G"},
		{Name: " eggs ", Quantity: 3, Unit: "piece"},
		{Name: "Eggs", Quantity: 1, Unit: "dozen"},
		{Name: "   "},
	}

	got := Consolidate(lines)

	want := []Line{
		{FoodItemID: &oats, Name: "Oats", Quantity: 150, Unit: "g"},
		{Name: "Eggs", Quantity: 5, Unit: "piece"},
		{Name: "Eggs", Quantity: 1, Unit: "dozen"},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Consolidate mismatch (-want +got):\n%s", diff)
	}
}

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/testhelpers"
	"github.com/pageza/platewise/backend/internal/types"
)

func TestPostgres_RecipeVectorSearch(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	user := testhelpers.CreateUser(t, db, "vector")
	recipes := service.NewRecipeService(db, nil, nil)
	ctx := context.Background()

	for _, req := range []*types.RecipeRequest{
		{Name: "Chocolate cake", Description: "rich chocolate sponge", Tags: []string{"dessert", "baking"}},
		{Name: "Tomato soup", Description: "creamy tomato soup", Tags: []string{"soup"}},
		{Name: "Lentil soup", Description: "hearty lentil soup", Tags: []string{"soup", "vegan"}},
	} {
		_, err := recipes.CreateRecipe(ctx, user.ID, req)
		require.NoError(t, err)
	}

	found, err := recipes.SearchRecipes(ctx, user.ID, "tomato soup", 3)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "Tomato soup", found[0].Name)
}

func TestPostgres_AchievementAwardedOnce(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	testhelpers.SeedCatalog(t, db)
	user := testhelpers.CreateUser(t, db, "pgachiever")
	ctx := context.Background()

	_, err := service.NewMealService(db, nil).CreateMeal(ctx, user.ID, &types.MealRequest{Date: "2024-03-10", MealType: "lunch"})
	require.NoError(t, err)

	svc := service.NewAchievementService(db, nil)
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := svc.Evaluate(ctx, user.ID)
			errs <- err
		}()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-errs)
	}

	earned, err := svc.Earned(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "First Bite", earned[0].AchievementType.Name)
}

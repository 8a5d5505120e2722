package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/testhelpers"
	"github.com/pageza/platewise/backend/internal/types"
	"github.com/pageza/platewise/backend/internal/vision"
)

type scriptedCompleter struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (c *scriptedCompleter) Complete(_ context.Context, _, prompt string, _ int) (string, error) {
	i := c.calls
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.replies) {
		return c.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

const modelReply = "Sure! ```json\n" +
	`{"suggestions":[{"name":"Greek yogurt bowl","meal_type":"snack","reason":"protein"},{"name":""},{"name":"Salmon with greens","meal_type":"dinner"}]}` +
	"\n```"

func TestParseSuggestions(t *testing.T) {
	got, err := parseSuggestions(modelReply)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Greek yogurt bowl", got[0].Name)
	assert.Equal(t, "dinner", got[1].MealType)

	_, err = parseSuggestions("no json here")
	assert.ErrorIs(t, err, vision.ErrMalformedResponse)

	_, err = parseSuggestions(`{"suggestions":[]}`)
	assert.ErrorIs(t, err, vision.ErrMalformedResponse)
}

func TestRecommendationService_RetriesRateLimits(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "hungry")
	llm := &scriptedCompleter{
		errs:    []error{vision.ErrRateLimited, vision.ErrRateLimited},
		replies: []string{"", "", modelReply},
	}
	svc := NewRecommendationService(db, llm, nil, nil)
	var waits []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	_, err := NewRecipeService(db, nil, nil).CreateRecipe(context.Background(), user.ID, &types.RecipeRequest{Name: "Tofu scramble"})
	require.NoError(t, err)

	recs, err := svc.Suggest(context.Background(), user.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "ai", recs.Source)
	assert.Len(t, recs.Suggestions, 2)
	assert.Equal(t, 3, llm.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
	assert.Contains(t, llm.prompts[0], "Tofu scramble")
}

func TestRecommendationService_FallsBackToHistory(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "regular")
	ctx := context.Background()

	recipes := NewRecipeService(db, nil, nil)
	meals := NewMealService(db, nil)
	ratings := map[string][]int{"Dal": {5, 4}, "Pizza": {3}, "Salad": {5}}
	for _, name := range []string{"Dal", "Pizza", "Salad", "Unrated"} {
		r, err := recipes.CreateRecipe(ctx, user.ID, &types.RecipeRequest{Name: name})
		require.NoError(t, err)
		for _, score := range ratings[name] {
			_, err := meals.CreateMeal(ctx, user.ID, &types.MealRequest{
				Date: "2024-02-20", MealType: "dinner", RecipeID: &r.ID, Rating: testhelpers.Ptr(score),
			})
			require.NoError(t, err)
		}
	}

	llm := &scriptedCompleter{errs: []error{errors.New("boom")}}
	svc := NewRecommendationService(db, llm, nil, nil)
	svc.sleep = func(context.Context, time.Duration) error {
		t.Fatal("non rate-limit errors are not retried")
		return nil
	}

	recs, err := svc.Suggest(ctx, user.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "rules", recs.Source)
	require.Len(t, recs.Suggestions, 3)
	assert.Equal(t, "Salad", recs.Suggestions[0].Name)
	assert.Equal(t, "Dal", recs.Suggestions[1].Name)
	assert.Equal(t, "Pizza", recs.Suggestions[2].Name)
	assert.Equal(t, 1, llm.calls)
}

func TestRecommendationService_NoModelUsesNewestRecipes(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "newbie")
	ctx := context.Background()

	_, err := NewRecipeService(db, nil, nil).CreateRecipe(ctx, user.ID, &types.RecipeRequest{Name: "Omelette"})
	require.NoError(t, err)

	recs, err := NewRecommendationService(db, nil, nil, nil).Suggest(ctx, user.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "rules", recs.Source)
	require.Len(t, recs.Suggestions, 1)
	assert.Equal(t, "Omelette", recs.Suggestions[0].Name)

	_, err = NewRecommendationService(db, nil, nil, nil).Suggest(ctx, user.ID, "yesterday")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecommendationService_CachesModelAnswers(t *testing.T) {
	rdb := testhelpers.SetupRedis(t)
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "cached")
	ctx := context.Background()

	llm := &scriptedCompleter{replies: []string{modelReply}}
	svc := NewRecommendationService(db, llm, rdb, nil)

	first, err := svc.Suggest(ctx, user.ID, "2024-03-01")
	require.NoError(t, err)
	second, err := svc.Suggest(ctx, user.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, llm.calls)

	ttl, err := rdb.TTL(ctx, recommendationKey(user.ID, "2024-03-01")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Minute)
}

package api

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/testhelpers"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: meal plan", service.ErrNotFound), http.StatusNotFound},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: bad date", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrAlreadyExists, http.StatusConflict},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrUpstream, http.StatusBadGateway},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	require.Len(t, c.Errors, 1)
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","checks":{"database":"ok"}}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, apiPath("/auth/register"), "", gin.H{
		"name": "Ada", "email": "Ada@Example.com", "password": "password123", "username": "ada",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reg AuthResponse
	decode(t, w, &reg)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = a.do(http.MethodPost, apiPath("/auth/register"), "", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "password123", "username": "ada2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, apiPath("/auth/register"), "", gin.H{
		"name": "Bo", "email": "bo@example.com", "password": "short", "username": "bo",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, apiPath("/auth/login"), "", gin.H{"email": "ada@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, apiPath("/auth/login"), "", gin.H{"email": "ada@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login AuthResponse
	decode(t, w, &login)

	w = a.do(http.MethodGet, apiPath("/auth/me"), login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), reg.User.ID.String())

	w = a.do(http.MethodGet, apiPath("/auth/me"), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)
	for _, p := range []string{"/recipes", "/meals", "/shopping-lists", "/achievements/progress", "/recommendations"} {
		w := a.do(http.MethodGet, apiPath("%s", p), "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, p)
	}
	w := a.do(http.MethodGet, apiPath("/recipes"), "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileGoals(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("goalie")

	w := a.do(http.MethodPut, apiPath("/profile/goals"), token, gin.H{"calorie_goal": 2200, "protein_goal": 120})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodGet, apiPath("/profile"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Username    string  `json:"username"`
		CalorieGoal float64 `json:"calorie_goal"`
		ProteinGoal float64 `json:"protein_goal"`
	}
	decode(t, w, &profile)
	assert.Equal(t, "goalie", profile.Username)
	assert.Equal(t, 2200.0, profile.CalorieGoal)
	assert.Equal(t, 120.0, profile.ProteinGoal)

	w = a.do(http.MethodPut, apiPath("/profile/goals"), token, gin.H{"calorie_goal": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeToDailyNutrition(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("cook")

	oats := a.created(a.do(http.MethodPost, apiPath("/foods"), token, gin.H{
		"name": "Oats", "calories_per_100g": 380, "protein_per_100g": 13,
	}))
	milk := a.created(a.do(http.MethodPost, apiPath("/foods"), token, gin.H{
		"name": "Milk", "calories_per_100g": 64, "protein_per_100g": 3.4,
	}))

	recipeID := a.created(a.do(http.MethodPost, apiPath("/recipes"), token, gin.H{
		"name":     "Porridge",
		"servings": 2,
		"ingredients": []gin.H{
			{"food_item_id": oats, "name": "oats", "quantity": 80, "unit": "g"},
			{"food_item_id": milk, "name": "milk", "quantity": 200, "unit": "ml"},
		},
	}))

	w := a.do(http.MethodGet, apiPath("/recipes/%s/nutrition", recipeID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rn struct {
		Total      struct{ Calories float64 } `json:"total"`
		PerServing struct{ Calories float64 } `json:"per_serving"`
	}
	decode(t, w, &rn)
	assert.InDelta(t, 432.0, rn.Total.Calories, 1e-9)
	assert.InDelta(t, 216.0, rn.PerServing.Calories, 1e-9)

	mealID := a.created(a.do(http.MethodPost, apiPath("/meals"), token, gin.H{
		"date": "2024-03-01", "meal_type": "breakfast", "recipe_id": recipeID, "quantity": 1.5,
	}))
	w = a.do(http.MethodPost, apiPath("/meals/%s/log", mealID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, apiPath("/nutrition/daily?date=2024-03-01"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var daily struct {
		Totals struct{ Calories float64 } `json:"totals"`
	}
	decode(t, w, &daily)
	assert.InDelta(t, 324.0, daily.Totals.Calories, 1e-9)

	w = a.do(http.MethodGet, apiPath("/nutrition/daily?date=03/01/2024"), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Another user can neither see nor use the recipe.
	other := a.register("stranger")
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, apiPath("/recipes/%s", recipeID), other, nil).Code)
	w = a.do(http.MethodPost, apiPath("/meals"), other, gin.H{
		"date": "2024-03-01", "meal_type": "lunch", "recipe_id": recipeID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPathIDValidation(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("pathy")

	w := a.do(http.MethodGet, apiPath("/recipes/not-a-uuid"), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, w.Body.String())

	w = a.do(http.MethodGet, apiPath("/recipes/%s", uuid.New()), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodDelete, apiPath("/meal-plans/%s", uuid.New()), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingListGroupedView(t *testing.T) {
	a := newTestAPI(t)
	testhelpers.SeedCatalog(t, a.db)
	token := a.register("shopper")

	w := a.do(http.MethodGet, apiPath("/shopping-categories"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats struct {
		Categories []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}
	decode(t, w, &cats)
	require.NotEmpty(t, cats.Categories)
	assert.Equal(t, "Produce", cats.Categories[0].Name)
	produce := cats.Categories[0].ID

	listID := a.created(a.do(http.MethodPost, apiPath("/shopping-lists"), token, gin.H{"name": "Weekend"}))
	a.created(a.do(http.MethodPost, apiPath("/shopping-lists/%s/items", listID), token, gin.H{
		"item_name": "Kitchen roll", "estimated_cost": 3.5,
	}))
	apples := a.created(a.do(http.MethodPost, apiPath("/shopping-lists/%s/items", listID), token, gin.H{
		"item_name": "Apples", "quantity": 6, "category_id": produce, "estimated_cost": 2.0,
	}))

	w = a.do(http.MethodPut, apiPath("/shopping-lists/%s/items/%s/cost", listID, apples), token, gin.H{
		"estimated_cost": 2.0, "actual_cost": 2.75,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, apiPath("/shopping-lists/%s/items/%s/toggle", listID, apples), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_purchased":true`)

	w = a.do(http.MethodGet, apiPath("/shopping-lists/%s", listID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Name   string `json:"name"`
		Groups []struct {
			Category string `json:"category"`
			Items    []struct {
				Name string `json:"name"`
			} `json:"items"`
		} `json:"groups"`
		TotalCost      float64 `json:"total_cost"`
		ItemCount      int     `json:"item_count"`
		PurchasedCount int     `json:"purchased_count"`
	}
	decode(t, w, &view)
	require.Len(t, view.Groups, 2)
	assert.Equal(t, "Produce", view.Groups[0].Category)
	assert.Equal(t, "Apples", view.Groups[0].Items[0].Name)
	assert.Equal(t, "Uncategorized", view.Groups[1].Category)
	assert.InDelta(t, 6.25, view.TotalCost, 1e-9)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, 1, view.PurchasedCount)

	other := a.register("nosy")
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, apiPath("/shopping-lists/%s", listID), other, nil).Code)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, apiPath("/shopping-lists/%s", listID), token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, apiPath("/shopping-lists/%s", listID), token, nil).Code)
}

func TestPlanWeekAndShoppingList(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("planner")

	recipeID := a.created(a.do(http.MethodPost, apiPath("/recipes"), token, gin.H{
		"name":        "Tacos",
		"ingredients": []gin.H{{"name": "Tortilla", "quantity": 4}},
	}))
	planID := a.created(a.do(http.MethodPost, apiPath("/meal-plans"), token, gin.H{
		"name": "Week 10", "start_date": "2024-03-04", "end_date": "2024-03-10",
	}))
	a.created(a.do(http.MethodPost, apiPath("/meal-plan-events"), token, gin.H{
		"meal_plan_id": planID, "date": "2024-03-05", "meal_type": "dinner", "recipe_id": recipeID,
	}))
	a.created(a.do(http.MethodPost, apiPath("/meal-plan-events"), token, gin.H{
		"meal_plan_id": planID, "date": "2024-03-08", "meal_type": "dinner", "recipe_id": recipeID,
	}))

	w := a.do(http.MethodGet, apiPath("/calendar/week?date=2024-03-07"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var week struct {
		Days []struct {
			Date   string `json:"date"`
			Events []struct {
				Title string `json:"title"`
			} `json:"events"`
		} `json:"days"`
	}
	decode(t, w, &week)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "2024-03-04", week.Days[0].Date)
	require.Len(t, week.Days[1].Events, 1)
	assert.Equal(t, "Tacos", week.Days[1].Events[0].Title)
	assert.Empty(t, week.Days[2].Events)

	w = a.do(http.MethodPost, apiPath("/meal-plans/%s/shopping-list", planID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var list struct {
		Name  string `json:"name"`
		Items []struct {
			ItemName string  `json:"item_name"`
			Quantity float64 `json:"quantity"`
		} `json:"items"`
	}
	decode(t, w, &list)
	assert.Equal(t, "Shopping for Week 10", list.Name)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 8.0, list.Items[0].Quantity)

	w = a.do(http.MethodPost, apiPath("/meal-plans"), token, gin.H{
		"name": "Backwards", "start_date": "2024-03-10", "end_date": "2024-03-04",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAchievementsEvaluate(t *testing.T) {
	a := newTestAPI(t)
	testhelpers.SeedCatalog(t, a.db)
	token := a.register("achiever")

	a.created(a.do(http.MethodPost, apiPath("/recipes"), token, gin.H{"name": "Toast"}))

	w := a.do(http.MethodPost, apiPath("/achievements/evaluate"), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodGet, apiPath("/achievements/earned"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var earned struct {
		Achievements []struct {
			AchievementType struct {
				Name string `json:"name"`
			} `json:"achievement_type"`
		} `json:"achievements"`
	}
	decode(t, w, &earned)
	require.Len(t, earned.Achievements, 1)
	assert.Equal(t, "Home Cook", earned.Achievements[0].AchievementType.Name)

	w = a.do(http.MethodGet, apiPath("/achievements"), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommunityShareAndRate(t *testing.T) {
	a := newTestAPI(t)
	owner := a.register("sharer")
	fan := a.register("fan")

	recipeID := a.created(a.do(http.MethodPost, apiPath("/recipes"), owner, gin.H{"name": "Shakshuka"}))
	sharedID := a.created(a.do(http.MethodPost, apiPath("/community/shares"), owner, gin.H{"recipe_id": recipeID}))

	// Public recipes become readable by others.
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, apiPath("/recipes/%s", recipeID), fan, nil).Code)

	w := a.do(http.MethodPut, apiPath("/community/shares/%s/rating", sharedID), fan, gin.H{"rating": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = a.do(http.MethodPut, apiPath("/community/shares/%s/rating", sharedID), fan, gin.H{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	a.created(a.do(http.MethodPost, apiPath("/community/shares/%s/comments", sharedID), fan, gin.H{"body": "Lovely"}))
	w = a.do(http.MethodGet, apiPath("/community/shares/%s/comments", sharedID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lovely")

	w = a.do(http.MethodGet, apiPath("/community/feed"), fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sharedID)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, apiPath("/community/shares/%s", sharedID), fan, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, apiPath("/community/shares/%s", sharedID), owner, nil).Code)
}

func TestReadyMealStock(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("stocker")

	id := a.created(a.do(http.MethodPost, apiPath("/ready-meals"), token, gin.H{
		"name": "Lasagne", "stock_quantity": 3, "minimum_stock": 2,
	}))

	w := a.do(http.MethodPost, apiPath("/ready-meals/%s/stock", id), token, gin.H{"delta": -2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"stock_quantity":1`)

	w = a.do(http.MethodGet, apiPath("/ready-meals/low-stock"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lasagne")
}

func TestWorkSchedules(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("commuter")

	office := a.created(a.do(http.MethodPost, apiPath("/work-schedules"), token, gin.H{
		"name": "Office",
		"schedule": gin.H{
			"monday": gin.H{"is_working": true, "start_time": "08:00", "end_time": "16:00"},
		},
	}))
	remote := a.created(a.do(http.MethodPost, apiPath("/work-schedules"), token, gin.H{"name": "Remote"}))

	w := a.do(http.MethodPost, apiPath("/work-schedules"), token, gin.H{
		"name":     "Broken",
		"schedule": gin.H{"monday": gin.H{"is_working": true, "start_time": "18:00", "end_time": "08:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = a.do(http.MethodPost, apiPath("/work-schedules/%s/default", remote), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		WorkSchedules []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			IsDefault bool   `json:"is_default"`
			Schedule  map[string]struct {
				IsWorking bool   `json:"is_working"`
				StartTime string `json:"start_time"`
			} `json:"schedule"`
		} `json:"work_schedules"`
	}
	w = a.do(http.MethodGet, apiPath("/work-schedules"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &out)
	require.Len(t, out.WorkSchedules, 2)
	assert.Equal(t, "Remote", out.WorkSchedules[0].Name)
	assert.True(t, out.WorkSchedules[0].IsDefault)
	assert.Equal(t, office, out.WorkSchedules[1].ID)
	assert.Equal(t, "08:00", out.WorkSchedules[1].Schedule["monday"].StartTime)
	assert.Len(t, out.WorkSchedules[1].Schedule, 7)

	other := a.register("stranger")
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, apiPath("/work-schedules/%s", office), other, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, apiPath("/work-schedules/%s", office), token, nil).Code)
}

func multipartPhoto(t *testing.T, fields map[string]string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if data != nil {
		fw, err := mw.CreateFormFile("photo", "meal.png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestPhotoUploadAndAnalyze(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("snapper")

	body, contentType := multipartPhoto(t, map[string]string{"description": "lunch"}, pngHeader)
	req := httptest.NewRequest(http.MethodPost, apiPath("/photos"), body)
	req.Header.Set("Content-Type", contentType)
	photoID := a.created(a.send(req, token))
	assert.Len(t, a.photos.objects, 1)

	w := a.do(http.MethodPost, apiPath("/photos/%s/analyze?log=true", photoID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var analysis struct {
		Estimate struct {
			Provider string `json:"provider"`
		} `json:"estimate"`
		Log *struct {
			Calories float64 `json:"calories"`
		} `json:"nutrition_log"`
	}
	decode(t, w, &analysis)
	assert.Equal(t, "stub", analysis.Estimate.Provider)
	require.NotNil(t, analysis.Log)
	assert.Equal(t, 500.0, analysis.Log.Calories)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, apiPath("/photos/%s", photoID), token, nil).Code)
	assert.Empty(t, a.photos.objects)

	body, contentType = multipartPhoto(t, map[string]string{"description": "no file"}, nil)
	req = httptest.NewRequest(http.MethodPost, apiPath("/photos"), body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, a.send(req, token).Code)

	body, contentType = multipartPhoto(t, map[string]string{"meal_id": "nope"}, pngHeader)
	req = httptest.NewRequest(http.MethodPost, apiPath("/photos"), body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, a.send(req, token).Code)
}

func TestIdentify(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("curious")
	a.created(a.do(http.MethodPost, apiPath("/foods"), token, gin.H{"name": "Rolled oats", "calories_per_100g": 375}))

	w := a.do(http.MethodPost, apiPath("/identify/photo"), token, gin.H{"image_url": "https://img.test/bowl.jpg"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		SearchTerms []string `json:"searchTerms"`
		Matches     []struct {
			Term      string `json:"term"`
			FoodItems []struct {
				Name string `json:"name"`
			} `json:"food_items"`
		} `json:"matches"`
	}
	decode(t, w, &result)
	assert.Equal(t, []string{"oats"}, result.SearchTerms)
	require.Len(t, result.Matches, 1)
	require.Len(t, result.Matches[0].FoodItems, 1)
	assert.Equal(t, "Rolled oats", result.Matches[0].FoodItems[0].Name)

	body, contentType := multipartPhoto(t, map[string]string{"hint": "breakfast"}, pngHeader)
	req := httptest.NewRequest(http.MethodPost, apiPath("/identify/photo"), body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusOK, a.send(req, token).Code)

	w = a.do(http.MethodPost, apiPath("/identify/barcode"), token, gin.H{"code": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, apiPath("/identify/barcode"), token, gin.H{"code": "5449000000996"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecommendationsFallBackToRules(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("hungry")

	w := a.do(http.MethodGet, apiPath("/recommendations?date=2024-03-10"), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"source":"rules"`)
	assert.Contains(t, w.Body.String(), `"date":"2024-03-10"`)
}

func TestFitbitNotConfigured(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("runner")

	assert.Equal(t, http.StatusBadGateway, a.do(http.MethodPost, apiPath("/fitbit/connect"), token, nil).Code)

	w := a.do(http.MethodGet, apiPath("/fitbit/callback?error=access_denied"), "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "access_denied")
}

func TestRateLimitStatusWithoutLimiters(t *testing.T) {
	a := newTestAPI(t)
	token := a.register("counter")

	w := a.do(http.MethodGet, apiPath("/rate-limits"), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/nutrition"
	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/testhelpers"
	"github.com/pageza/platewise/backend/internal/vision"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	photos *memoryStore
}

// stubVision always sees a bowl of oats.
type stubVision struct{}

func (stubVision) IdentifyFoods(context.Context, vision.Image, string) (*vision.Identification, error) {
	return &vision.Identification{
		Foods:       []string{"oatmeal"},
		Confidence:  vision.ConfidenceHigh,
		SearchTerms: []string{"oats"},
		Provider:    "stub",
	}, nil
}

func (stubVision) EstimateMeal(context.Context, vision.Image, string) (*vision.MealEstimate, error) {
	return &vision.MealEstimate{
		Nutrition:  nutrition.Macros{Calories: 500, Protein: 20},
		Foods:      []string{"oatmeal"},
		Confidence: vision.ConfidenceMedium,
		Provider:   "stub",
	}, nil
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStore) URL(_ context.Context, key string) (string, error) {
	return "https://photos.test/" + key, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	store := &memoryStore{objects: make(map[string][]byte)}

	foods := service.NewFoodService(db, nil, nil)
	svc := Services{
		Auth:           service.NewAuthService(db, "test-secret", time.Hour, nil),
		Profile:        service.NewProfileService(db),
		Food:           foods,
		Recipe:         service.NewRecipeService(db, nil, nil),
		Meal:           service.NewMealService(db, nil),
		Plan:           service.NewPlanService(db, nil),
		Schedule:       service.NewScheduleService(db, nil),
		Shopping:       service.NewShoppingService(db, nil),
		Achievement:    service.NewAchievementService(db, nil),
		Community:      service.NewCommunityService(db, nil),
		ReadyMeal:      service.NewReadyMealService(db),
		Identify:       service.NewIdentifyService(stubVision{}, foods, nil),
		Photo:          service.NewPhotoService(db, store, stubVision{}, nil),
		Recommendation: service.NewRecommendationService(db, nil, nil, nil),
		Fitbit:         service.NewFitbitService(db, nil, nil, nil),
	}

	router := gin.New()
	RegisterRoutes(router, db, nil, svc, Limiters{})
	return &testAPI{t: t, router: router, db: db, photos: store}
}

func (a *testAPI) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, token)
}

// register signs a user up through the API and returns their token.
func (a *testAPI) register(username string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     username,
		"email":    username + "@example.com",
		"password": "password123",
		"username": username,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	decode(a.t, w, &resp)
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

// created asserts a 201 and returns the "id" of the response body.
func (a *testAPI) created(w *httptest.ResponseRecorder) string {
	a.t.Helper()
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var obj struct {
		ID string `json:"id"`
	}
	decode(a.t, w, &obj)
	require.NotEmpty(a.t, obj.ID)
	return obj.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func apiPath(format string, args ...interface{}) string {
	return "/api/v1" + fmt.Sprintf(format, args...)
}

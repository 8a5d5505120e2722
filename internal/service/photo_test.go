package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/nutrition"
	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/testhelpers"
	"github.com/pageza/platewise/backend/internal/types"
	"github.com/pageza/platewise/backend/internal/vision"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStore) URL(_ context.Context, key string) (string, error) {
	return "https://photos.test/" + key + "?signed=1", nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestPhotoService_Upload(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "photographer")
	store := newMemoryStore()
	photos := service.NewPhotoService(db, store, nil, nil)
	ctx := context.Background()

	photo, err := photos.Upload(ctx, user.ID, &service.PhotoUpload{Data: pngHeader, Description: "lunch"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(photo.ObjectKey, "meal-photos/"+user.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(photo.ObjectKey, ".png"))
	assert.Contains(t, photo.ImageURL, "signed=1")
	assert.Len(t, store.objects, 1)

	_, err = photos.Upload(ctx, user.ID, &service.PhotoUpload{Data: []byte("just text"), ContentType: "text/plain"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = photos.Upload(ctx, user.ID, &service.PhotoUpload{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = photos.Upload(ctx, user.ID, &service.PhotoUpload{Data: make([]byte, service.MaxPhotoBytes+1), ContentType: "image/jpeg"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	missingMeal := user.ID
	_, err = photos.Upload(ctx, user.ID, &service.PhotoUpload{Data: pngHeader, MealID: &missingMeal})
	assert.ErrorIs(t, err, service.ErrNotFound)

	store.putErr = errors.New("bucket gone")
	_, err = photos.Upload(ctx, user.ID, &service.PhotoUpload{Data: pngHeader})
	assert.ErrorIs(t, err, service.ErrUpstream)

	list, err := photos.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].ImageURL)

	require.NoError(t, photos.Delete(ctx, user.ID, photo.ID))
	assert.Empty(t, store.objects)
	_, err = photos.Get(ctx, user.ID, photo.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPhotoService_UploadWithoutStore(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "nostore")

	_, err := service.NewPhotoService(db, nil, nil, nil).Upload(context.Background(), user.ID, &service.PhotoUpload{Data: pngHeader})
	assert.ErrorIs(t, err, service.ErrUpstream)
}

func TestPhotoService_Analyze(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "analyst")
	ctx := context.Background()

	meal, err := service.NewMealService(db, nil).CreateMeal(ctx, user.ID, &types.MealRequest{Date: "2024-03-01", MealType: "dinner"})
	require.NoError(t, err)

	identifier := &fakeIdentifier{estimate: &vision.MealEstimate{
		Nutrition:  nutrition.Macros{Calories: 650, Protein: 35, Carbs: 70, Fat: 22},
		Foods:      []string{"salmon", "rice"},
		Confidence: vision.ConfidenceHigh,
		Provider:   "fake",
	}}
	photos := service.NewPhotoService(db, newMemoryStore(), identifier, nil)

	photo, err := photos.Upload(ctx, user.ID, &service.PhotoUpload{Data: pngHeader, MealID: &meal.ID, Description: "salmon bowl"})
	require.NoError(t, err)

	analysis, err := photos.Analyze(ctx, user.ID, photo.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 650.0, analysis.Estimate.Nutrition.Calories)
	require.NotNil(t, analysis.Log)
	assert.Equal(t, "photo", analysis.Log.Source)
	assert.Equal(t, models.Date("2024-03-01"), analysis.Log.Date)
	assert.Equal(t, "salmon, rice", analysis.Log.Notes)
	require.Len(t, identifier.images, 1)
	assert.Equal(t, photo.ImageURL, identifier.images[0].URL)

	stored, err := photos.Get(ctx, user.ID, photo.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AnalyzedAt)
	assert.WithinDuration(t, time.Now(), *stored.AnalyzedAt, time.Minute)
	assert.Contains(t, string(stored.AIAnalyzedNutrition), `"calories":650`)

	daily, err := service.NewMealService(db, nil).DailyNutrition(ctx, user.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 650.0, daily.Totals.Calories)

	identifier.estimateErr = vision.ErrUnavailable
	_, err = photos.Analyze(ctx, user.ID, photo.ID, false)
	assert.ErrorIs(t, err, service.ErrUpstream)
}

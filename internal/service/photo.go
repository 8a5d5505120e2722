package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/vision"
)

// MaxPhotoBytes caps uploaded meal photos.
const MaxPhotoBytes = 10 << 20

var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// PhotoUpload is a meal photo as received from the client.
type PhotoUpload struct {
	Data        []byte
	ContentType string
	Description string
	MealID      *uuid.UUID
}

// PhotoAnalysis is the stored photo with the estimate made from it and the
// nutrition log written for it, if any.
type PhotoAnalysis struct {
	Photo    *models.MealPhoto    `json:"photo"`
	Estimate *vision.MealEstimate `json:"estimate"`
	Log      *models.NutritionLog `json:"nutrition_log,omitempty"`
}

// PhotoService stores meal photos and estimates their nutrition.
type PhotoService struct {
	db         *gorm.DB
	store      PhotoStore
	identifier FoodIdentifier
	logger     *zap.Logger
	now        func() time.Time
}

var _ IPhotoService = (*PhotoService)(nil)

func NewPhotoService(db *gorm.DB, store PhotoStore, identifier FoodIdentifier, logger *zap.Logger) *PhotoService {
	return &PhotoService{
		db:         db,
		store:      store,
		identifier: identifier,
		logger:     logging.OrNop(logger).Named("photos"),
		now:        time.Now,
	}
}

// Upload validates and stores the photo and records it.
func (s *PhotoService) Upload(ctx context.Context, userID uuid.UUID, up *PhotoUpload) (*models.MealPhoto, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: photo storage is not configured", ErrUpstream)
	}
	if len(up.Data) == 0 {
		return nil, fmt.Errorf("%w: empty photo", ErrInvalidInput)
	}
	if len(up.Data) > MaxPhotoBytes {
		return nil, fmt.Errorf("%w: photo larger than %d bytes", ErrInvalidInput, MaxPhotoBytes)
	}
	contentType := up.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(up.Data)
	}
	contentType, _, _ = strings.Cut(contentType, ";")
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", ErrInvalidInput, contentType)
	}
	if up.MealID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Meal{}).Where("id = ? AND user_id = ?", *up.MealID, userID).Count(&count).Error; err != nil {
			return nil, dbErr("check meal", err)
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: meal %s", ErrNotFound, *up.MealID)
		}
	}

	key := fmt.Sprintf("meal-photos/%s/%s.%s", userID, uuid.New(), ext)
	if err := s.store.Put(ctx, key, up.Data, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	photo := &models.MealPhoto{
		UserID:      userID,
		MealID:      up.MealID,
		ObjectKey:   key,
		Description: up.Description,
	}
	if err := s.db.WithContext(ctx).Create(photo).Error; err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned photo", zap.String("key", key), zap.Error(delErr))
		}
		return nil, dbErr("create meal photo", err)
	}
	s.withURL(ctx, photo)
	return photo, nil
}

// Analyze estimates the photo's nutrition and stores the estimate. With
// logNutrition set, the estimate is also written as a nutrition log for the
// meal's date, or today.
func (s *PhotoService) Analyze(ctx context.Context, userID, photoID uuid.UUID, logNutrition bool) (*PhotoAnalysis, error) {
	photo, err := s.Get(ctx, userID, photoID)
	if err != nil {
		return nil, err
	}
	if s.identifier == nil || photo.ImageURL == "" {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, vision.ErrUnavailable)
	}

	estimate, err := s.identifier.EstimateMeal(ctx, vision.Image{URL: photo.ImageURL}, photo.Description)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	raw, err := json.Marshal(estimate)
	if err != nil {
		return nil, fmt.Errorf("failed to encode estimate: %w", err)
	}
	analyzedAt := s.now()
	photo.AIAnalyzedNutrition = datatypes.JSON(raw)
	photo.AnalyzedAt = &analyzedAt

	out := &PhotoAnalysis{Photo: photo, Estimate: estimate}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(photo).Updates(map[string]interface{}{
			"ai_analyzed_nutrition": photo.AIAnalyzedNutrition,
			"analyzed_at":           analyzedAt,
		}).Error
		if err != nil {
			return dbErr("store estimate", err)
		}
		if !logNutrition {
			return nil
		}

		date := models.DateOf(analyzedAt)
		if photo.MealID != nil {
			var meal models.Meal
			if err := tx.Select("date").First(&meal, "id = ?", *photo.MealID).Error; err == nil {
				date = meal.Date
			}
		}
		entry := &models.NutritionLog{
			UserID: userID,
			Date:   date,
			MealID: photo.MealID,
			Source: "photo",
			Notes:  strings.Join(estimate.Foods, ", "),
		}
		entry.SetMacros(estimate.Nutrition)
		if err := tx.Create(entry).Error; err != nil {
			return dbErr("create nutrition log", err)
		}
		out.Log = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PhotoService) Get(ctx context.Context, userID, id uuid.UUID) (*models.MealPhoto, error) {
	var photo models.MealPhoto
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&photo).Error; err != nil {
		return nil, dbErr("get meal photo", err)
	}
	s.withURL(ctx, &photo)
	return &photo, nil
}

func (s *PhotoService) List(ctx context.Context, userID uuid.UUID) ([]models.MealPhoto, error) {
	var photos []models.MealPhoto
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&photos).Error; err != nil {
		return nil, dbErr("list meal photos", err)
	}
	for i := range photos {
		s.withURL(ctx, &photos[i])
	}
	return photos, nil
}

// Delete removes the row, then the stored object. A failed object delete is
// logged only.
func (s *PhotoService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	var photo models.MealPhoto
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&photo).Error; err != nil {
		return dbErr("get meal photo", err)
	}
	if err := s.db.WithContext(ctx).Delete(&photo).Error; err != nil {
		return dbErr("delete meal photo", err)
	}
	if s.store != nil {
		if err := s.store.Delete(ctx, photo.ObjectKey); err != nil {
			s.logger.Warn("failed to delete photo object", zap.String("key", photo.ObjectKey), zap.Error(err))
		}
	}
	return nil
}

// withURL refreshes the presigned read URL.
func (s *PhotoService) withURL(ctx context.Context, photo *models.MealPhoto) {
	if s.store == nil {
		return
	}
	url, err := s.store.URL(ctx, photo.ObjectKey)
	if err != nil {
		s.logger.Warn("failed to presign photo url", zap.String("key", photo.ObjectKey), zap.Error(err))
		return
	}
	photo.ImageURL = url
}

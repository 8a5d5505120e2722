package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/types"
)

// CommunityService publishes recipes and handles ratings and comments on
// them.
type CommunityService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ ICommunityService = (*CommunityService)(nil)

func NewCommunityService(db *gorm.DB, logger *zap.Logger) *CommunityService {
	return &CommunityService{db: db, logger: logging.OrNop(logger).Named("community")}
}

// Share publishes one of the user's recipes. Sharing an already shared
// recipe updates its visibility.
func (s *CommunityService) Share(ctx context.Context, userID uuid.UUID, req *types.ShareRecipeRequest) (*models.SharedRecipe, error) {
	db := s.db.WithContext(ctx)
	if err := ownsRecipe(db, userID, &req.RecipeID); err != nil {
		return nil, err
	}
	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}

	var shared models.SharedRecipe
	err := db.Where("recipe_id = ?", req.RecipeID).First(&shared).Error
	switch {
	case err == nil:
		shared.IsPublic = public
		if err := db.Model(&shared).Update("is_public", public).Error; err != nil {
			return nil, dbErr("update shared recipe", err)
		}
		return &shared, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, dbErr("find shared recipe", err)
	}

	shared = models.SharedRecipe{RecipeID: req.RecipeID, UserID: userID, IsPublic: public}
	if err := db.Create(&shared).Error; err != nil {
		return nil, dbErr("share recipe", err)
	}
	return &shared, nil
}

// Unshare removes the shared entry with its ratings and comments.
func (s *CommunityService) Unshare(ctx context.Context, userID, sharedID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", sharedID, userID).Delete(&models.SharedRecipe{})
		if res.Error != nil {
			return dbErr("unshare recipe", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("shared_recipe_id = ?", sharedID).Delete(&models.RecipeRating{}).Error; err != nil {
			return dbErr("delete ratings", err)
		}
		return dbErr("delete comments", tx.Where("shared_recipe_id = ?", sharedID).Delete(&models.RecipeComment{}).Error)
	})
}

// Feed lists public shared recipes, featured first, then by average rating.
func (s *CommunityService) Feed(ctx context.Context, limit, offset int) ([]models.SharedRecipe, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	var out []models.SharedRecipe
	err := s.db.WithContext(ctx).
		Preload("Recipe").
		Where("is_public = ?", true).
		Order("featured DESC").
		Order("average_rating DESC").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, dbErr("list shared recipes", err)
	}
	return out, nil
}

func (s *CommunityService) GetShared(ctx context.Context, userID, sharedID uuid.UUID) (*models.SharedRecipe, error) {
	var shared models.SharedRecipe
	err := s.db.WithContext(ctx).
		Preload("Recipe.Ingredients").
		Where("id = ? AND (is_public = ? OR user_id = ?)", sharedID, true, userID).
		First(&shared).Error
	if err != nil {
		return nil, dbErr("get shared recipe", err)
	}
	return &shared, nil
}

// Rate stores the user's rating, replacing any earlier one, and recomputes
// the recipe's average and count from all ratings.
func (s *CommunityService) Rate(ctx context.Context, userID, sharedID uuid.UUID, req *types.RateRecipeRequest) (*models.SharedRecipe, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if _, err := s.GetShared(ctx, userID, sharedID); err != nil {
		return nil, err
	}

	var shared models.SharedRecipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rating := &models.RecipeRating{
			SharedRecipeID: sharedID,
			UserID:         userID,
			Rating:         req.Rating,
			Review:         req.Review,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shared_recipe_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
		}).Create(rating).Error
		if err != nil {
			return dbErr("save rating", err)
		}

		var agg struct {
			Average float64
			Total   int
		}
		err = tx.Model(&models.RecipeRating{}).
			Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
			Where("shared_recipe_id = ?", sharedID).
			Scan(&agg).Error
		if err != nil {
			return dbErr("aggregate ratings", err)
		}

		err = tx.Model(&models.SharedRecipe{}).Where("id = ?", sharedID).Updates(map[string]interface{}{
			"average_rating": agg.Average,
			"total_ratings":  agg.Total,
		}).Error
		if err != nil {
			return dbErr("update rating summary", err)
		}
		return dbErr("reload shared recipe", tx.First(&shared, "id = ?", sharedID).Error)
	})
	if err != nil {
		return nil, err
	}
	return &shared, nil
}

func (s *CommunityService) AddComment(ctx context.Context, userID, sharedID uuid.UUID, req *types.CommentRequest) (*models.RecipeComment, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is empty", ErrInvalidInput)
	}
	if _, err := s.GetShared(ctx, userID, sharedID); err != nil {
		return nil, err
	}
	if req.ParentCommentID != nil {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.RecipeComment{}).
			Where("id = ? AND shared_recipe_id = ?", *req.ParentCommentID, sharedID).
			Count(&count).Error
		if err != nil {
			return nil, dbErr("check parent comment", err)
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: parent comment", ErrNotFound)
		}
	}

	comment := &models.RecipeComment{
		SharedRecipeID:  sharedID,
		UserID:          userID,
		ParentCommentID: req.ParentCommentID,
		Body:            body,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, dbErr("create comment", err)
	}
	return comment, nil
}

// Comments returns top-level comments, oldest first, each with its replies.
func (s *CommunityService) Comments(ctx context.Context, userID, sharedID uuid.UUID) ([]models.RecipeComment, error) {
	if _, err := s.GetShared(ctx, userID, sharedID); err != nil {
		return nil, err
	}
	var comments []models.RecipeComment
	err := s.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Where("shared_recipe_id = ? AND parent_comment_id IS NULL", sharedID).
		Order("created_at").
		Find(&comments).Error
	if err != nil {
		return nil, dbErr("list comments", err)
	}
	return comments, nil
}

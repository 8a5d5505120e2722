package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/types"
)

// ProfileService manages the per-user profile row.
type ProfileService struct {
	db *gorm.DB
}

var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, dbErr("get profile", err)
	}
	return &profile, nil
}

// UpdateGoals sets the nutrition goals present in req.
func (s *ProfileService) UpdateGoals(ctx context.Context, userID uuid.UUID, req *types.UpdateGoalsRequest) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&profile.CalorieGoal, req.CalorieGoal)
	set(&profile.ProteinGoal, req.ProteinGoal)
	set(&profile.CarbsGoal, req.CarbsGoal)
	set(&profile.FatGoal, req.FatGoal)
	set(&profile.FiberGoal, req.FiberGoal)
	set(&profile.SugarGoal, req.SugarGoal)
	set(&profile.SodiumGoal, req.SodiumGoal)

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, dbErr("update profile", err)
	}
	return profile, nil
}

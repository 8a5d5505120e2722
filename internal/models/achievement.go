package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AchievementType is a catalog entry. Criteria holds {"type": ..., "target": ...}.
type AchievementType struct {
	Base
	Name         string         `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Icon         string         `gorm:"size:50" json:"icon"`
	Criteria     datatypes.JSON `gorm:"not null" json:"criteria"`
	RewardPoints int            `gorm:"not null;default:0" json:"reward_points"`
}

// UserAchievement records an award. The (user, achievement type) pair is
// unique so a second award attempt is rejected by the store.
type UserAchievement struct {
	Base
	UserID            uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementTypeID uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_achievement" json:"achievement_type_id"`
	AchievementType   *AchievementType `gorm:"constraint:OnDelete:CASCADE" json:"achievement_type,omitempty"`
	AchievedAt        time.Time        `gorm:"not null" json:"achieved_at"`
	Progress          datatypes.JSON   `json:"progress,omitempty"`
}

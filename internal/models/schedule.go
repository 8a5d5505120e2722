package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkSchedule is a named weekly pattern of working hours. Schedule holds a
// planner.WeekSchedule. A user has at most one default schedule, enforced by
// the partial unique index idx_work_schedules_default.
type WorkSchedule struct {
	Base
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Schedule  datatypes.JSON `gorm:"not null" json:"schedule"`
	IsDefault bool           `gorm:"not null;default:false" json:"is_default"`
}

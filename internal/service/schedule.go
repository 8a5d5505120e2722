package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/planner"
	"github.com/pageza/platewise/backend/internal/types"
)

// ScheduleService manages the user's work schedules. The first schedule a
// user creates becomes the default, and there is never more than one.
type ScheduleService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IScheduleService = (*ScheduleService)(nil)

func NewScheduleService(db *gorm.DB, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{db: db, logger: logging.OrNop(logger).Named("schedules")}
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, userID uuid.UUID, req *types.WorkScheduleRequest) (*models.WorkSchedule, error) {
	schedule := &models.WorkSchedule{UserID: userID}
	week, err := applySchedule(schedule, req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.WorkSchedule{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
			return dbErr("count schedules", err)
		}
		schedule.IsDefault = existing == 0 || req.IsDefault
		if schedule.IsDefault {
			if err := clearDefault(tx, userID, uuid.Nil); err != nil {
				return err
			}
		}
		return dbErr("create schedule", tx.Create(schedule).Error)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created work schedule",
		zap.String("schedule_id", schedule.ID.String()),
		zap.Int("working_days", week.WorkingDays()),
		zap.Bool("default", schedule.IsDefault))
	return schedule, nil
}

func (s *ScheduleService) GetSchedule(ctx context.Context, userID, id uuid.UUID) (*models.WorkSchedule, error) {
	var schedule models.WorkSchedule
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&schedule).Error; err != nil {
		return nil, dbErr("get schedule", err)
	}
	return &schedule, nil
}

// ListSchedules returns the default schedule first, then the rest by name.
func (s *ScheduleService) ListSchedules(ctx context.Context, userID uuid.UUID) ([]models.WorkSchedule, error) {
	var schedules []models.WorkSchedule
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("name").
		Find(&schedules).Error
	if err != nil {
		return nil, dbErr("list schedules", err)
	}
	return schedules, nil
}

func (s *ScheduleService) UpdateSchedule(ctx context.Context, userID, id uuid.UUID, req *types.WorkScheduleRequest) (*models.WorkSchedule, error) {
	schedule, err := s.GetSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := applySchedule(schedule, req); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !schedule.IsDefault {
			if err := clearDefault(tx, userID, schedule.ID); err != nil {
				return err
			}
			schedule.IsDefault = true
		}
		return dbErr("update schedule", tx.Save(schedule).Error)
	})
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// SetDefault makes the schedule the user's default.
func (s *ScheduleService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.WorkSchedule, error) {
	schedule, err := s.GetSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if schedule.IsDefault {
		return schedule, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearDefault(tx, userID, schedule.ID); err != nil {
			return err
		}
		return dbErr("set default schedule", tx.Model(schedule).Update("is_default", true).Error)
	})
	if err != nil {
		return nil, err
	}
	schedule.IsDefault = true
	return schedule, nil
}

// DeleteSchedule removes a schedule. Deleting the default promotes the
// remaining schedule that sorts first by name.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var schedule models.WorkSchedule
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&schedule).Error; err != nil {
			return dbErr("get schedule", err)
		}
		if err := tx.Delete(&schedule).Error; err != nil {
			return dbErr("delete schedule", err)
		}
		if !schedule.IsDefault {
			return nil
		}

		var next models.WorkSchedule
		err := tx.Where("user_id = ?", userID).Order("name").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return dbErr("find next schedule", err)
		}
		return dbErr("promote schedule", tx.Model(&next).Update("is_default", true).Error)
	})
}

// clearDefault unsets the default flag on every schedule of the user except keep.
func clearDefault(tx *gorm.DB, userID, keep uuid.UUID) error {
	err := tx.Model(&models.WorkSchedule{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keep, true).
		Update("is_default", false).Error
	return dbErr("clear default schedule", err)
}

func applySchedule(schedule *models.WorkSchedule, req *types.WorkScheduleRequest) (planner.WeekSchedule, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	week, err := planner.NormalizeSchedule(req.Schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	raw, err := json.Marshal(week)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	schedule.Name = name
	schedule.Schedule = datatypes.JSON(raw)
	return week, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/fitbit"
	"github.com/pageza/platewise/backend/internal/logging"
	"github.com/pageza/platewise/backend/internal/models"
)

const fitbitStateTTL = 10 * time.Minute

// FitbitAPI is the OAuth and profile surface of *fitbit.Client.
type FitbitAPI interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*fitbit.Token, error)
	Profile(ctx context.Context, accessToken string) (*fitbit.Profile, error)
}

// FitbitStatus describes the user's Fitbit link.
type FitbitStatus struct {
	Connected    bool       `json:"connected"`
	FitbitUserID string     `json:"fitbit_user_id,omitempty"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// FitbitService links a user to their Fitbit account. The OAuth state lives
// in Redis for ten minutes and is consumed on callback.
type FitbitService struct {
	db     *gorm.DB
	redis  *redis.Client
	client FitbitAPI
	logger *zap.Logger
	now    func() time.Time
}

var _ IFitbitService = (*FitbitService)(nil)

func NewFitbitService(db *gorm.DB, redisClient *redis.Client, client FitbitAPI, logger *zap.Logger) *FitbitService {
	return &FitbitService{
		db:     db,
		redis:  redisClient,
		client: client,
		logger: logging.OrNop(logger).Named("fitbit"),
		now:    time.Now,
	}
}

func fitbitStateKey(state string) string {
	return "fitbit:oauth:state:" + state
}

func (s *FitbitService) available() error {
	if s.client == nil || !s.client.Configured() || s.redis == nil {
		return fmt.Errorf("%w: fitbit integration is not configured", ErrUpstream)
	}
	return nil
}

// Start records a fresh state for userID and returns the consent URL.
func (s *FitbitService) Start(ctx context.Context, userID uuid.UUID) (string, error) {
	if err := s.available(); err != nil {
		return "", err
	}
	state := uuid.NewString()
	if err := s.redis.Set(ctx, fitbitStateKey(state), userID.String(), fitbitStateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return s.client.AuthCodeURL(state), nil
}

// Callback consumes state, exchanges code for tokens and stores them on the
// profile of the user who started the flow.
func (s *FitbitService) Callback(ctx context.Context, state, code string) (*FitbitStatus, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if state == "" || code == "" {
		return nil, fmt.Errorf("%w: state and code are required", ErrInvalidInput)
	}

	raw, err := s.redis.GetDel(ctx, fitbitStateKey(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: unknown or expired state", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to read oauth state: %w", err)
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt oauth state", ErrInvalidInput)
	}

	token, err := s.client.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	fitbitUserID := token.UserID
	if profile, err := s.client.Profile(ctx, token.AccessToken); err != nil {
		s.logger.Warn("failed to fetch fitbit profile", zap.Error(err))
	} else if profile.EncodedID != "" {
		fitbitUserID = profile.EncodedID
	}

	now := s.now()
	expires := token.ExpiresAt(now)
	res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"fitbit_user_id":          fitbitUserID,
		"fitbit_access_token":     token.AccessToken,
		"fitbit_refresh_token":    token.RefreshToken,
		"fitbit_token_expires_at": expires,
		"fitbit_connected_at":     now,
	})
	if res.Error != nil {
		return nil, dbErr("store fitbit tokens", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Info("fitbit connected", zap.String("user_id", userID.String()))
	return &FitbitStatus{
		Connected:    true,
		FitbitUserID: fitbitUserID,
		ConnectedAt:  &now,
		ExpiresAt:    &expires,
	}, nil
}

func (s *FitbitService) Status(ctx context.Context, userID uuid.UUID) (*FitbitStatus, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, dbErr("get profile", err)
	}
	return &FitbitStatus{
		Connected:    profile.FitbitConnected(),
		FitbitUserID: profile.FitbitUserID,
		ConnectedAt:  profile.FitbitConnectedAt,
		ExpiresAt:    profile.FitbitTokenExpiresAt,
	}, nil
}

// Disconnect forgets the stored tokens.
func (s *FitbitService) Disconnect(ctx context.Context, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"fitbit_user_id":          "",
		"fitbit_access_token":     "",
		"fitbit_refresh_token":    "",
		"fitbit_token_expires_at": nil,
		"fitbit_connected_at":     nil,
	}).Error
	return dbErr("clear fitbit tokens", err)
}

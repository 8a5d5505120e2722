package service_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/fitbit"
	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/testhelpers"
)

type fakeFitbit struct {
	configured  bool
	exchangeErr error
	codes       []string
}

func (f *fakeFitbit) Configured() bool { return f.configured }

func (f *fakeFitbit) AuthCodeURL(state string) string {
	return "https://fitbit.test/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeFitbit) Exchange(_ context.Context, code string) (*fitbit.Token, error) {
	f.codes = append(f.codes, code)
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &fitbit.Token{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 28800, UserID: "TOKENUSER"}, nil
}

func (f *fakeFitbit) Profile(context.Context, string) (*fitbit.Profile, error) {
	return &fitbit.Profile{EncodedID: "ABC123", DisplayName: "Runner"}, nil
}

func TestFitbitService_NotConfigured(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "walker")
	ctx := context.Background()

	_, err := service.NewFitbitService(db, nil, &fakeFitbit{configured: true}, nil).Start(ctx, user.ID)
	assert.ErrorIs(t, err, service.ErrUpstream)

	_, err = service.NewFitbitService(db, nil, nil, nil).Callback(ctx, "state", "code")
	assert.ErrorIs(t, err, service.ErrUpstream)

	status, err := service.NewFitbitService(db, nil, nil, nil).Status(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestFitbitService_OAuthFlow(t *testing.T) {
	rdb := testhelpers.SetupRedis(t)
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "runner")
	client := &fakeFitbit{configured: true}
	svc := service.NewFitbitService(db, rdb, client, nil)
	ctx := context.Background()

	consent, err := svc.Start(ctx, user.ID)
	require.NoError(t, err)
	parsed, err := url.Parse(consent)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	_, err = svc.Callback(ctx, "forged", "code-1")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Empty(t, client.codes)

	status, err := svc.Callback(ctx, state, "code-1")
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "ABC123", status.FitbitUserID)
	assert.Equal(t, []string{"code-1"}, client.codes)

	// State is single use.
	_, err = svc.Callback(ctx, state, "code-2")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	stored, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Connected)
	require.NotNil(t, stored.ExpiresAt)
	require.NotNil(t, stored.ConnectedAt)
	assert.True(t, stored.ExpiresAt.After(*stored.ConnectedAt))

	require.NoError(t, svc.Disconnect(ctx, user.ID))
	stored, err = svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Connected)
	assert.Nil(t, stored.ConnectedAt)
}

func TestFitbitService_ExchangeFailure(t *testing.T) {
	rdb := testhelpers.SetupRedis(t)
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "sprinter")
	svc := service.NewFitbitService(db, rdb, &fakeFitbit{configured: true, exchangeErr: errors.New("invalid_grant")}, nil)
	ctx := context.Background()

	consent, err := svc.Start(ctx, user.ID)
	require.NoError(t, err)
	parsed, err := url.Parse(consent)
	require.NoError(t, err)

	_, err = svc.Callback(ctx, parsed.Query().Get("state"), "bad-code")
	assert.ErrorIs(t, err, service.ErrUpstream)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/testhelpers"
	"github.com/pageza/platewise/backend/internal/types"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)
	ctx := context.Background()

	user, token, err := auth.Register(ctx, &types.RegisterRequest{
		Name:     "Ada",
		Email:    "  Ada@Example.com ",
		Password: "password123",
		Username: "ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)

	loggedIn, token2, err := auth.Login(ctx, "ADA@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token2)

	got, err := auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret", 0, nil)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, &types.RegisterRequest{Name: "A", Email: "a@example.com", Password: "password123", Username: "alpha"})
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, &types.RegisterRequest{Name: "B", Email: "a@example.com", Password: "password123", Username: "beta"})
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	_, _, err = auth.Register(ctx, &types.RegisterRequest{Name: "C", Email: "c@example.com", Password: "password123", Username: "alpha"})
	assert.ErrorIs(t, err, service.ErrAlreadyExists)
}

func TestAuthService_LoginFailures(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)
	testhelpers.CreateUser(t, db, "grace")

	_, _, err := auth.Login(context.Background(), "grace@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = auth.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "linus")
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)

	token, err := auth.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: "linus"})
	require.NoError(t, err)

	other := service.NewAuthService(db, "other-secret", time.Hour, nil)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)

	expired := service.NewAuthService(db, "test-secret", time.Nanosecond, nil)
	stale, err := expired.GenerateToken(&types.TokenClaims{UserID: user.ID})
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	_, err = auth.ValidateToken(stale)
	assert.Error(t, err)
}

func TestProfileService_UpdateGoals(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "goals")
	profiles := service.NewProfileService(db)
	ctx := context.Background()

	updated, err := profiles.UpdateGoals(ctx, user.ID, &types.UpdateGoalsRequest{
		CalorieGoal: testhelpers.Ptr(2000.0),
		ProteinGoal: testhelpers.Ptr(150.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.CalorieGoal)

	updated, err = profiles.UpdateGoals(ctx, user.ID, &types.UpdateGoalsRequest{FatGoal: testhelpers.Ptr(70.0)})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.CalorieGoal)
	assert.Equal(t, 150.0, updated.ProteinGoal)
	assert.Equal(t, 70.0, updated.FatGoal)

	_, err = profiles.GetProfile(ctx, testhelpers.CreateUser(t, db, "other").ID)
	require.NoError(t, err)
}

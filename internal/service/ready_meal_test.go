package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/testhelpers"
	"github.com/pageza/platewise/backend/internal/types"
)

func TestReadyMealService_Stock(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "batcher")
	svc := service.NewReadyMealService(db)
	ctx := context.Background()

	chili, err := svc.Create(ctx, user.ID, &types.ReadyMealRequest{Name: "Chili", StockQuantity: 4, MinimumStock: 2, Calories: 520})
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, &types.ReadyMealRequest{Name: "Lasagne", StockQuantity: 1, MinimumStock: 1})
	require.NoError(t, err)

	low, err := svc.LowStock(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Lasagne", low[0].Name)

	chili, err = svc.AdjustStock(ctx, user.ID, chili.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 2, chili.StockQuantity)
	assert.True(t, chili.LowStock())

	_, err = svc.AdjustStock(ctx, user.ID, chili.ID, -3)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	stored, err := svc.Get(ctx, user.ID, chili.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.StockQuantity)

	low, err = svc.LowStock(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	_, err = svc.Update(ctx, user.ID, chili.ID, &types.ReadyMealRequest{Name: ""})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	other := testhelpers.CreateUser(t, db, "other")
	_, err = svc.AdjustStock(ctx, other.ID, chili.ID, 1)
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, user.ID, chili.ID))
	all, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

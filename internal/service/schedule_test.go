package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/models"
	"github.com/pageza/platewise/backend/internal/planner"
	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/testhelpers"
	"github.com/pageza/platewise/backend/internal/types"
)

func scheduleNames(schedules []models.WorkSchedule) []string {
	out := make([]string, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, s.Name)
	}
	return out
}

func defaultCount(schedules []models.WorkSchedule) int {
	n := 0
	for _, s := range schedules {
		if s.IsDefault {
			n++
		}
	}
	return n
}

func TestScheduleService_FirstScheduleIsDefault(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "shifter")
	svc := service.NewScheduleService(db, nil)
	ctx := context.Background()

	office, err := svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{
		Name: "Office",
		Schedule: planner.WeekSchedule{
			"monday": {IsWorking: true, StartTime: "08:00", EndTime: "16:00"},
		},
	})
	require.NoError(t, err)
	assert.True(t, office.IsDefault)

	var week planner.WeekSchedule
	require.NoError(t, json.Unmarshal(office.Schedule, &week))
	assert.Len(t, week, 7)
	assert.Equal(t, "16:00", week["monday"].EndTime)
	assert.False(t, week["sunday"].IsWorking)

	_, err = svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "Afternoon"})
	require.NoError(t, err)
	_, err = svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "Break"})
	require.NoError(t, err)

	list, err := svc.ListSchedules(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Office", "Afternoon", "Break"}, scheduleNames(list))
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)
}

func TestScheduleService_SingleDefault(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "rota")
	svc := service.NewScheduleService(db, nil)
	ctx := context.Background()

	list := func() []models.WorkSchedule {
		out, err := svc.ListSchedules(ctx, user.ID)
		require.NoError(t, err)
		return out
	}

	first, err := svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "Days"})
	require.NoError(t, err)
	nights, err := svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "Nights", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, nights.IsDefault)
	assert.Equal(t, 1, defaultCount(list()))
	assert.Equal(t, "Nights", list()[0].Name)

	got, err := svc.SetDefault(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
	assert.Equal(t, 1, defaultCount(list()))
	assert.Equal(t, "Days", list()[0].Name)

	updated, err := svc.UpdateSchedule(ctx, user.ID, nights.ID, &types.WorkScheduleRequest{Name: "Late shift", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, 1, defaultCount(list()))

	// A second default row is refused by the store itself.
	err = db.Model(&models.WorkSchedule{}).Where("id = ?", first.ID).Update("is_default", true).Error
	assert.Error(t, err)
}

func TestScheduleService_DeleteDefaultPromotesNext(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "planner")
	svc := service.NewScheduleService(db, nil)
	ctx := context.Background()

	primary, err := svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "Main"})
	require.NoError(t, err)
	_, err = svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "Zulu"})
	require.NoError(t, err)
	_, err = svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "Alpha"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSchedule(ctx, user.ID, primary.ID))

	list, err := svc.ListSchedules(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.True(t, list[0].IsDefault)

	assert.ErrorIs(t, svc.DeleteSchedule(ctx, user.ID, primary.ID), service.ErrNotFound)
}

func TestScheduleService_ValidationAndOwnership(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateUser(t, db, "owner")
	other := testhelpers.CreateUser(t, db, "intruder")
	svc := service.NewScheduleService(db, nil)
	ctx := context.Background()

	_, err := svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "  "})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{
		Name:     "Backwards",
		Schedule: planner.WeekSchedule{"monday": {IsWorking: true, StartTime: "17:00", EndTime: "09:00"}},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	mine, err := svc.CreateSchedule(ctx, user.ID, &types.WorkScheduleRequest{Name: "Mine"})
	require.NoError(t, err)

	_, err = svc.GetSchedule(ctx, other.ID, mine.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.SetDefault(ctx, other.ID, mine.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSchedule(ctx, other.ID, mine.ID), service.ErrNotFound)

	// The other user's first schedule is their own default.
	theirs, err := svc.CreateSchedule(ctx, other.ID, &types.WorkScheduleRequest{Name: "Theirs"})
	require.NoError(t, err)
	assert.True(t, theirs.IsDefault)
}

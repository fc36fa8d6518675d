//go:build integration

package reminder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mak/internal/jobs"
	"mak/internal/reminder"
	"mak/internal/testhelpers"
)

func TestService_SetReplacesQueuedJob(t *testing.T) {
	ctx := context.Background()
	gdb := testhelpers.Postgres(t)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	svc := &reminder.Service{DB: gdb, Location: time.UTC, Now: func() time.Time { return now }}

	next, err := svc.Set(ctx, 99, "Ann", "09:00", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), next)

	_, err = svc.Set(ctx, 99, "Ann", "10:00", []string{"tue"})
	require.NoError(t, err)

	var pending []jobs.Job
	require.NoError(t, gdb.Where("chat_id = ? AND status = ?", 99, jobs.StatusPending).Find(&pending).Error)
	require.Len(t, pending, 1)

	sub, err := svc.Get(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, "10:00", sub.At)
	assert.Equal(t, []string{"tue"}, []string(sub.Weekdays))

	require.NoError(t, svc.Clear(ctx, 99))
	assert.ErrorIs(t, svc.Clear(ctx, 99), reminder.ErrNotFound)
	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, reminder.ErrNotFound)
}

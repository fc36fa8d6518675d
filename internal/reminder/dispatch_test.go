package reminder_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mak/internal/jobs"
	"mak/internal/reminder"
)

type fakeSubs struct {
	sub       *reminder.Subscription
	scheduled int
}

func (f *fakeSubs) Get(context.Context, int64) (reminder.Subscription, error) {
	if f.sub == nil {
		return reminder.Subscription{}, reminder.ErrNotFound
	}
	return *f.sub, nil
}

func (f *fakeSubs) ScheduleNext(context.Context, reminder.Subscription) (time.Time, error) {
	f.scheduled++
	return time.Now(), nil
}

type fakeNotifier struct {
	sent []int64
	err  error
}

func (f *fakeNotifier) NotifyDailyReminder(_ context.Context, chatID int64, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, chatID)
	return nil
}

func reminderJob(t *testing.T, chatID int64) *jobs.Job {
	t.Helper()
	raw, err := json.Marshal(jobs.ReminderPayload{ChatID: chatID, Local: "09:00"})
	require.NoError(t, err)
	return &jobs.Job{ID: 1, ChatID: chatID, Type: jobs.TypeDailyReminder, Payload: raw}
}

func newDispatcher(s *fakeSubs, n *fakeNotifier) *reminder.Dispatcher {
	return &reminder.Dispatcher{Subs: s, Notifier: n, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestDispatcher_SendsAndReschedules(t *testing.T) {
	subs := &fakeSubs{sub: &reminder.Subscription{ChatID: 7, At: "09:00"}}
	n := &fakeNotifier{}

	require.NoError(t, newDispatcher(subs, n).Handle(context.Background(), reminderJob(t, 7)))
	assert.Equal(t, []int64{7}, n.sent)
	assert.Equal(t, 1, subs.scheduled)
}

func TestDispatcher_UnsubscribedIsDone(t *testing.T) {
	n := &fakeNotifier{}
	require.NoError(t, newDispatcher(&fakeSubs{}, n).Handle(context.Background(), reminderJob(t, 7)))
	assert.Empty(t, n.sent)
}

func TestDispatcher_SendFailureIsRetried(t *testing.T) {
	subs := &fakeSubs{sub: &reminder.Subscription{ChatID: 7, At: "09:00"}}
	err := newDispatcher(subs, &fakeNotifier{err: errors.New("timeout")}).Handle(context.Background(), reminderJob(t, 7))
	require.Error(t, err)
	assert.NotErrorIs(t, err, jobs.ErrPermanent)
	assert.Equal(t, 0, subs.scheduled)
}

func TestDispatcher_BadPayloadIsPermanent(t *testing.T) {
	job := &jobs.Job{ID: 1, ChatID: 7, Type: jobs.TypeDailyReminder, Payload: []byte("{")}
	err := newDispatcher(&fakeSubs{}, &fakeNotifier{}).Handle(context.Background(), job)
	assert.ErrorIs(t, err, jobs.ErrPermanent)
}

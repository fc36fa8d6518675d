package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mak/internal/jobs"
)

// Notifier delivers the reminder message.
type Notifier interface {
	NotifyDailyReminder(ctx context.Context, chatID int64, firstName string) error
}

type Subscriptions interface {
	Get(ctx context.Context, chatID int64) (Subscription, error)
	ScheduleNext(ctx context.Context, sub Subscription) (time.Time, error)
}

// Dispatcher handles DAILY_REMINDER jobs.
type Dispatcher struct {
	Subs     Subscriptions
	Notifier Notifier
	Logger   *slog.Logger
}

func (d *Dispatcher) Handle(ctx context.Context, job *jobs.Job) error {
	var p jobs.ReminderPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil || p.ChatID != job.ChatID {
		return fmt.Errorf("bad payload: %w", jobs.ErrPermanent)
	}

	sub, err := d.Subs.Get(ctx, job.ChatID)
	if errors.Is(err, ErrNotFound) {
		// unsubscribed after the job was queued
		return nil
	}
	if err != nil {
		return err
	}

	if err := d.Notifier.NotifyDailyReminder(ctx, sub.ChatID, sub.FirstName); err != nil {
		return err
	}

	next, err := d.Subs.ScheduleNext(ctx, sub)
	if err != nil {
		d.logger().Warn("reminder not rescheduled", "chat_id", sub.ChatID, "err", err)
		return nil
	}
	d.logger().Info("reminder sent", "chat_id", sub.ChatID, "next_run", next)
	return nil
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Repo is the postgres-backed Queue.
type Repo struct {
	DB         *gorm.DB
	StaleAfter time.Duration
}

// EnqueueReminder inserts a reminder job. Pass the caller's transaction to
// make it atomic with the subscription change.
func EnqueueReminder(tx *gorm.DB, chatID int64, runAt time.Time, local string) error {
	payload, _ := json.Marshal(ReminderPayload{ChatID: chatID, Local: local})
	j := Job{
		ChatID:  chatID,
		Type:    TypeDailyReminder,
		Payload: payload,
		RunAt:   runAt,
		Status:  StatusPending,
	}
	return tx.Create(&j).Error
}

// CancelPending cancels queued jobs of a chat that have not started.
func CancelPending(tx *gorm.DB, chatID int64, jobType string) error {
	return tx.Exec(`
update jobs
set status=?, updated_at=now()
where chat_id=? and type=? and status=?`, StatusCancelled, chatID, jobType, StatusPending).Error
}

// Claim locks the oldest due job of one of types for workerID. It returns
// nil when nothing is due. RUNNING jobs older than StaleAfter are requeued
// first.
func (r *Repo) Claim(ctx context.Context, workerID string, types []string) (*Job, error) {
	var job Job
	stale := r.StaleAfter
	if stale <= 0 {
		stale = 5 * time.Minute
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
update jobs
set status=?, locked_by=null, locked_at=null, updated_at=now()
where status=? and locked_at < ?`,
			StatusPending, StatusRunning, time.Now().Add(-stale)).Error; err != nil {
			return err
		}

		return tx.Raw(`
with due as (
  select id from jobs
  where status=? and run_at <= now() and type = any(?)
  order by run_at, id
  for update skip locked
  limit 1
)
update jobs j
set status=?, locked_by=?, locked_at=now(), updated_at=now()
from due
where j.id = due.id
returning j.*`,
			StatusPending, pq.StringArray(types), StatusRunning, workerID).Scan(&job).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *Repo) MarkDone(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Exec(`update jobs set status='DONE', updated_at=now() where id=?`, id).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.DB.WithContext(ctx).Exec(`update jobs set status='FAILED', last_error=?, updated_at=now() where id=?`, errMsg, id).Error
}

func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.DB.WithContext(ctx).Exec(`
update jobs
set status='PENDING',
    attempts=?,
    run_at=?,
    locked_by=null,
    locked_at=null,
    last_error=?,
    updated_at=now()
where id=?`, attempts, runAt, errMsg, id).Error
}

package jobs

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"math"
	"slices"
	"time"
)

// ErrPermanent marks a job failure that retrying can not fix.
var ErrPermanent = errors.New("permanent job failure")

type Queue interface {
	Claim(ctx context.Context, workerID string, types []string) (*Job, error)
	MarkDone(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64, errMsg string) error
	RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error
}

// Handler processes one job type. A nil error marks the job done.
type Handler interface {
	Handle(ctx context.Context, job *Job) error
}

type Worker struct {
	ID       string
	Queue    Queue
	Handlers map[string]Handler
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick claims and processes at most one due job.
func (w *Worker) Tick(ctx context.Context) {
	job, err := w.Queue.Claim(ctx, w.ID, w.types())
	if err != nil {
		w.logger().Warn("worker claim error", "worker", w.ID, "err", err)
		return
	}
	if job == nil {
		return
	}
	w.handle(ctx, job)
}

func (w *Worker) types() []string {
	out := slices.Collect(maps.Keys(w.Handlers))
	slices.Sort(out)
	return out
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	log := w.logger().With("job_id", job.ID, "type", job.Type, "chat_id", job.ChatID)

	h, ok := w.Handlers[job.Type]
	if !ok {
		_ = w.Queue.MarkFailed(ctx, job.ID, "unknown job type")
		log.Warn("unknown job type")
		return
	}

	err := h.Handle(ctx, job)
	switch {
	case err == nil:
		_ = w.Queue.MarkDone(ctx, job.ID)
		log.Debug("job done")
	case errors.Is(err, ErrPermanent):
		_ = w.Queue.MarkFailed(ctx, job.ID, err.Error())
		log.Warn("job failed", "err", err)
	default:
		w.retry(ctx, job, err.Error())
		log.Warn("job retry", "attempt", job.Attempts+1, "err", err)
	}
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Queue.MarkFailed(ctx, job.ID, errMsg)
		return
	}

	_ = w.Queue.RetryLater(ctx, job.ID, attempts, w.now().Add(Backoff(attempts)), errMsg)
}

// Backoff is 2^attempts seconds, capped at ten minutes.
func Backoff(attempts int) time.Duration {
	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	return time.Duration(sec) * time.Second
}

func (w *Worker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

package reminder

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mak/internal/jobs"
)

var ErrNotFound = errors.New("no reminder for this chat")

type Service struct {
	DB       *gorm.DB
	Location *time.Location
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// Set upserts the subscription and replaces its queued job in one
// transaction. It returns the first run time.
func (s *Service) Set(ctx context.Context, chatID int64, firstName, at string, weekdays []string) (time.Time, error) {
	if _, _, err := ParseClock(at); err != nil {
		return time.Time{}, err
	}
	next, err := NextRun(s.now(), at, weekdays, s.loc())
	if err != nil {
		return time.Time{}, err
	}

	sub := Subscription{
		ChatID:    chatID,
		FirstName: firstName,
		At:        at,
		Weekdays:  weekdays,
		Location:  s.loc().String(),
		UpdatedAt: s.now(),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "at", "weekdays", "location", "updated_at"}),
		}).Create(&sub).Error; err != nil {
			return err
		}
		if err := jobs.CancelPending(tx, chatID, jobs.TypeDailyReminder); err != nil {
			return err
		}
		return jobs.EnqueueReminder(tx, chatID, next, at)
	})
	if err != nil {
		return time.Time{}, err
	}
	return next, nil
}

// Clear removes the subscription and cancels its queued job.
func (s *Service) Clear(ctx context.Context, chatID int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("chat_id = ?", chatID).Delete(&Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if err := jobs.CancelPending(tx, chatID, jobs.TypeDailyReminder); err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, chatID int64) (Subscription, error) {
	var sub Subscription
	err := s.DB.WithContext(ctx).Where("chat_id = ?", chatID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Subscription{}, ErrNotFound
	}
	return sub, err
}

// ScheduleNext queues the run after the current one.
func (s *Service) ScheduleNext(ctx context.Context, sub Subscription) (time.Time, error) {
	loc, err := time.LoadLocation(sub.Location)
	if err != nil {
		loc = s.loc()
	}
	next, err := NextRun(s.now(), sub.At, sub.Weekdays, loc)
	if err != nil {
		return time.Time{}, err
	}
	return next, jobs.EnqueueReminder(s.DB.WithContext(ctx), sub.ChatID, next, sub.At)
}

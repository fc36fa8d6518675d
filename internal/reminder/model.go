package reminder

import (
	"time"

	"github.com/lib/pq"
)

// Subscription is a chat's opt-in to a daily card reminder.
type Subscription struct {
	ChatID    int64          `gorm:"primaryKey;autoIncrement:false"`
	FirstName string         `gorm:"type:text;not null;default:''"`
	At        string         `gorm:"type:text;not null"` // HH:MM in Location
	Weekdays  pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Location  string         `gorm:"type:text;not null;default:'UTC'"`
	CreatedAt time.Time      `gorm:"not null;default:now()"`
	UpdatedAt time.Time      `gorm:"not null;default:now()"`
}

func (Subscription) TableName() string { return "reminder_subscriptions" }

package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mak/internal/jobs"
	"mak/internal/reminder"
	"mak/internal/storage"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&storage.Entry{},
		&jobs.Job{},
		&reminder.Subscription{},
	); err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_kv_owner_updated on kv_entries(owner_id, updated_at desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
		`create index if not exists idx_jobs_chat_pending on jobs(chat_id, type) where status = 'PENDING';`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

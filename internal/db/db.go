package db

import (
	"errors"
	"fmt"

	"keepsake/internal/auth"
	"keepsake/internal/jobs"
	"keepsake/internal/record"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrNoDSN = errors.New("no database url configured")

func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&record.Memory{},
		&record.Task{},
		&record.Event{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// Ownership scans and the per-entity freshness orderings. The user_id
	// columns deliberately carry no referential constraint; ownership is
	// application-enforced.
	stmts := []string{
		`create index if not exists idx_memories_user_date on memories(user_id, date desc);`,
		`create index if not exists idx_tasks_user_created on tasks(user_id, created_at desc);`,
		`create index if not exists idx_events_user_date on events(user_id, date desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

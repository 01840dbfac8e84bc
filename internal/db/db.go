package db

import (
	"fmt"

	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/auth"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/jobs"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/reading"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
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
		&reading.Reading{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// List and analytics queries are always user-scoped and time-ordered
	stmts := []string{
		`create index if not exists idx_readings_user_ts on readings(user_id, timestamp desc);`,
		`create index if not exists idx_readings_user_category on readings(user_id, category);`,
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

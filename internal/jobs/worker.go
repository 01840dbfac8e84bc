package jobs

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Worker struct {
	ID   string
	Repo *Repo
	DB   *gorm.DB
	Log  *zap.Logger
}

// readingRow mirrors the columns the alert needs. Declared locally to keep
// this package from importing the reading package (which enqueues into us).
type readingRow struct {
	ID        uint64    `gorm:"column:id"`
	UserID    uint64    `gorm:"column:user_id"`
	Systolic  int       `gorm:"column:systolic"`
	Diastolic int       `gorm:"column:diastolic"`
	Pulse     int       `gorm:"column:pulse"`
	Category  string    `gorm:"column:category"`
	Timestamp time.Time `gorm:"column:timestamp"`
}

func (readingRow) TableName() string { return "readings" }

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(800 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				w.Log.Error("worker claim failed", zap.Error(err))
				continue
			}
			if job == nil {
				continue
			}
			w.handle(job)
		}
	}
}

func (w *Worker) handle(job *Job) {
	switch job.Type {
	case "ALERT_DISPATCH":
		w.handleAlert(job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

func (w *Worker) handleAlert(job *Job) {
	type payload struct {
		ReadingID uint64 `json:"reading_id"`
	}
	var p payload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		_ = w.Repo.MarkFailed(job.ID, "bad payload")
		return
	}

	var row readingRow
	if err := w.DB.
		Where("id=? AND user_id=?", p.ReadingID, job.UserID).
		First(&row).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			// reading deleted before dispatch, nothing to alert on
			_ = w.Repo.MarkDone(job.ID)
			return
		}
		w.retry(job, "db read error")
		return
	}

	if row.Category != "Crisis" {
		_ = w.Repo.MarkDone(job.ID)
		return
	}

	w.Log.Warn("hypertensive crisis alert",
		zap.Uint64("user_id", job.UserID),
		zap.Uint64("reading_id", row.ID),
		zap.Int("systolic", row.Systolic),
		zap.Int("diastolic", row.Diastolic),
		zap.Int("pulse", row.Pulse),
		zap.Time("timestamp", row.Timestamp),
		zap.String("recommendation", "Seek immediate medical attention"),
	)
	_ = w.Repo.MarkDone(job.ID)
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}

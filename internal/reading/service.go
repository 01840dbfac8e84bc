package reading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/jobs"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Systolic  int
	Diastolic int
	Pulse     int
	Notes     string
	Timestamp *time.Time
}

// Create validates, classifies and persists one reading. A Crisis reading
// enqueues an alert job inside the same transaction so a stored crisis is
// never silently unalerted.
func (s *Service) Create(ctx context.Context, userID uint64, in CreateInput) (*Reading, error) {
	if err := ValidateVitals(in.Systolic, in.Diastolic, in.Pulse); err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	r := Reading{
		PublicID:  uuid.New(),
		UserID:    userID,
		Systolic:  in.Systolic,
		Diastolic: in.Diastolic,
		Pulse:     in.Pulse,
		Category:  Classify(in.Systolic, in.Diastolic),
		Notes:     strings.TrimSpace(in.Notes),
		Timestamp: ts,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		if r.Category == CategoryCrisis {
			repo := &jobs.Repo{DB: tx}
			if err := repo.EnqueueAlert(userID, r.ID, time.Now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// BulkResult reports a partially successful bulk insert.
type BulkResult struct {
	Created  []Reading
	Warnings []string
}

const bulkMax = 100

var ErrBulkTooLarge = fmt.Errorf("maximum %d readings per bulk operation", bulkMax)

// CreateBulk inserts up to 100 readings in one transaction. Items failing
// validation are skipped and reported as warnings; when every item fails the
// whole operation is a *ValidationError.
func (s *Service) CreateBulk(ctx context.Context, userID uint64, inputs []CreateInput) (*BulkResult, error) {
	if len(inputs) == 0 {
		return nil, &ValidationError{Messages: []string{"At least one reading is required"}}
	}
	if len(inputs) > bulkMax {
		return nil, ErrBulkTooLarge
	}

	res := &BulkResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := &jobs.Repo{DB: tx}
		for i, in := range inputs {
			if verr := ValidateVitals(in.Systolic, in.Diastolic, in.Pulse); verr != nil {
				var ve *ValidationError
				errors.As(verr, &ve)
				for _, m := range ve.Messages {
					res.Warnings = append(res.Warnings, fmt.Sprintf("Reading %d: %s", i+1, m))
				}
				continue
			}

			ts := time.Now().UTC()
			if in.Timestamp != nil {
				ts = *in.Timestamp
			}
			r := Reading{
				PublicID:  uuid.New(),
				UserID:    userID,
				Systolic:  in.Systolic,
				Diastolic: in.Diastolic,
				Pulse:     in.Pulse,
				Category:  Classify(in.Systolic, in.Diastolic),
				Notes:     strings.TrimSpace(in.Notes),
				Timestamp: ts,
			}
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			if r.Category == CategoryCrisis {
				if err := repo.EnqueueAlert(userID, r.ID, time.Now()); err != nil {
					return err
				}
			}
			res.Created = append(res.Created, r)
		}

		if len(res.Created) == 0 {
			return &ValidationError{Messages: res.Warnings}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListFilter narrows List. Zero values mean "no filter"; Limit defaults to 50.
type ListFilter struct {
	Limit    int
	Offset   int
	Days     int
	Category Category
}

// List returns the user's readings newest first plus the total count matching
// the filter (pre-pagination).
func (s *Service) List(ctx context.Context, userID uint64, f ListFilter) ([]Reading, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}

	q := s.DB.WithContext(ctx).Model(&Reading{}).Where("user_id = ?", userID)
	if f.Days > 0 {
		q = q.Where("timestamp >= ?", time.Now().UTC().AddDate(0, 0, -f.Days))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Reading
	if err := q.Order("timestamp desc").Offset(f.Offset).Limit(f.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Get fetches one reading by public id, scoped to its owner.
func (s *Service) Get(ctx context.Context, userID uint64, publicID uuid.UUID) (*Reading, error) {
	var r Reading
	err := s.DB.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Delete removes one reading. Later aggregates recompute from the remaining
// set, so the deleted reading stops contributing immediately.
func (s *Service) Delete(ctx context.Context, userID uint64, publicID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		Delete(&Reading{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FetchWindow loads the user's readings from the trailing window, oldest
// first, for the analytics operations.
func (s *Service) FetchWindow(ctx context.Context, userID uint64, days int, now time.Time) ([]Reading, error) {
	var rows []Reading
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, now.AddDate(0, 0, -days)).
		Order("timestamp asc").
		Find(&rows).Error
	return rows, err
}

package reading

import (
	"time"

	"github.com/google/uuid"
)

// Reading is one blood-pressure/pulse observation. Category is derived from
// systolic/diastolic at write time and never set by the client.
type Reading struct {
	ID       uint64    `gorm:"primaryKey"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	UserID   uint64    `gorm:"index;not null"`

	Systolic  int      `gorm:"not null"`
	Diastolic int      `gorm:"not null"`
	Pulse     int      `gorm:"not null"`
	Category  Category `gorm:"type:varchar(20);not null"`

	Notes string `gorm:"type:text"`

	Timestamp time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

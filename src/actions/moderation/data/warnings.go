package data

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrWarningNotFound is returned for unknown or expired warning IDs.
var ErrWarningNotFound = errors.New("moderation: warning not found")

// Warning is a moderator warning against a guild member.
type Warning struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"size:32;not null;index"`
	UserName    string    `gorm:"size:100;not null"`
	Reason      string    `gorm:"type:text;not null"`
	ModeratorID string    `gorm:"size:32;not null"`
	GivenAt     time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// NewWarning builds a warning with a fresh ID, expiring ttl after now.
func NewWarning(userID, userName, reason, moderatorID string, now time.Time, ttl time.Duration) Warning {
	return Warning{
		ID:          uuid.NewString(),
		UserID:      userID,
		UserName:    userName,
		Reason:      reason,
		ModeratorID: moderatorID,
		GivenAt:     now.UTC(),
		ExpiresAt:   now.UTC().Add(ttl),
	}
}

// AddWarning stores w and returns how many active warnings the user now has.
func AddWarning(db *gorm.DB, w Warning) (int64, error) {
	if err := db.Create(&w).Error; err != nil {
		return 0, fmt.Errorf("moderation: save warning: %w", err)
	}
	var count int64
	if err := db.Model(&Warning{}).
		Where("user_id = ? AND expires_at > ?", w.UserID, w.GivenAt).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("moderation: count warnings: %w", err)
	}
	return count, nil
}

// GetWarning loads an active warning by ID.
func GetWarning(db *gorm.DB, id string, now time.Time) (*Warning, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrWarningNotFound
	}
	var w Warning
	err := db.Where("id = ? AND expires_at > ?", id, now.UTC()).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWarningNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("moderation: load warning: %w", err)
	}
	return &w, nil
}

// DeleteWarning removes a warning.
func DeleteWarning(db *gorm.DB, id string) error {
	return db.Delete(&Warning{}, "id = ?", id).Error
}

// WarningsForUser lists a user's active warnings, oldest first.
func WarningsForUser(db *gorm.DB, userID string, now time.Time) ([]Warning, error) {
	var warnings []Warning
	if err := db.Where("user_id = ? AND expires_at > ?", userID, now.UTC()).
		Order("given_at ASC").Find(&warnings).Error; err != nil {
		return nil, fmt.Errorf("moderation: list warnings: %w", err)
	}
	return warnings, nil
}

// AllWarnings lists every active warning, oldest first.
func AllWarnings(db *gorm.DB, now time.Time) ([]Warning, error) {
	var warnings []Warning
	if err := db.Where("expires_at > ?", now.UTC()).
		Order("given_at ASC").Find(&warnings).Error; err != nil {
		return nil, fmt.Errorf("moderation: list warnings: %w", err)
	}
	return warnings, nil
}

// PurgeExpired deletes warnings that have run out.
func PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expires_at <= ?", now.UTC()).Delete(&Warning{})
	return res.RowsAffected, res.Error
}

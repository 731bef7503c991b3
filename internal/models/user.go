package models

import (
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Nickname     string         `gorm:"uniqueIndex;size:64;not null" json:"nickname"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;default:'USER';index" json:"role"` // USER | ADMIN
	BirthDate    *time.Time     `json:"birth_date"`                                        // immutable once set

	Status        string     `gorm:"size:20;not null;default:'active';index" json:"status"` // active | suspended | banned
	WarningCount  int        `gorm:"not null;default:0" json:"warning_count"`               // monotonically non-decreasing
	SuspendedAt   *time.Time `json:"suspended_at"`
	BannedAt      *time.Time `json:"banned_at"`
	SuspendReason *string    `gorm:"type:text" json:"suspend_reason"`
	BanReason     *string    `gorm:"type:text" json:"ban_reason"`

	// NeedsVerification marks an account held by the verification
	// gate pending an admin decision on its re-registration.
	NeedsVerification bool `gorm:"not null;default:false" json:"needs_verification"`

	// Version guards concurrent mutations; every state change bumps it.
	Version uint `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// Restricted reports whether the account is currently suspended or banned.
func (u *User) Restricted() bool {
	return u.Status == domain.StatusSuspended || u.Status == domain.StatusBanned
}

// ThresholdReached is the derived warning-threshold signal shown to
// administrators. It never triggers a suspension by itself.
func (u *User) ThresholdReached(threshold int) bool {
	return threshold > 0 && u.WarningCount >= threshold
}

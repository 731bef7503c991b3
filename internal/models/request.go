package models

import (
	"time"
)

// UnbanRequest is a suspended or banned user's appeal for
// reinstatement. At most one pending request exists per user.
type UnbanRequest struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Email  string `gorm:"size:255" json:"email"`
	Reason string `gorm:"type:text;not null" json:"reason"`

	// CurrentStatus snapshots the account status at submission time.
	CurrentStatus string `gorm:"size:20;not null" json:"current_status"`

	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending | approved | rejected
	ProcessedAt *time.Time `json:"processed_at"`
	ProcessedBy *uint      `json:"processed_by"`
	Version     uint       `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (UnbanRequest) TableName() string { return "unban_requests" }

// VerificationRequest holds a re-registered account while an admin
// reviews the prior account's violation history. The archive snapshot
// is embedded so the decision evidence is self-contained.
type VerificationRequest struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Email    string `gorm:"size:255;not null;index" json:"email"`
	Nickname string `gorm:"size:64" json:"nickname"`

	Snapshot DeletedUserSnapshot `gorm:"type:json" json:"snapshot"`

	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending | approved | rejected
	ProcessedAt *time.Time `json:"processed_at"`
	ProcessedBy *uint      `json:"processed_by"`
	Version     uint       `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (VerificationRequest) TableName() string { return "verification_requests" }

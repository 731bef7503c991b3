package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ContentSnapshot is the reported content copied in at submission
// time, so the evidence survives deletion of the post or comment.
// Once the retention window for the author elapses it is replaced
// with a tombstone (Deleted=true).
type ContentSnapshot struct {
	Title         string    `json:"title,omitempty"`
	Body          string    `json:"body,omitempty"`
	Mood          string    `json:"mood,omitempty"`
	AuthorIP      string    `json:"author_ip,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	Deleted       bool      `json:"deleted,omitempty"`
	DeletedReason string    `json:"deleted_reason,omitempty"`
}

func (s ContentSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ContentSnapshot) Scan(src interface{}) error {
	return scanJSON(src, s)
}

type Report struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	ReporterID       *uint   `gorm:"index" json:"reporter_id"` // nil after reporter deletion
	ReporterNickname string  `gorm:"size:64" json:"reporter_nickname"`
	ReporterEmail    string  `gorm:"size:255" json:"reporter_email"`
	ReporterIP       string  `gorm:"size:45" json:"-"`
	TargetType       string  `gorm:"size:10;not null" json:"target_type"` // post | comment
	TargetID         string  `gorm:"size:64;not null;index" json:"target_id"`
	TargetUserID     uint    `gorm:"not null;index" json:"target_user_id"`
	TargetUserEmail  string  `gorm:"size:255" json:"target_user_email"`
	Reason           string  `gorm:"size:50;not null" json:"reason"`
	Status           string  `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending | processed | rejected
	Action           *string `gorm:"size:20" json:"action"`                                  // set iff status=processed

	Snapshot ContentSnapshot `gorm:"type:json" json:"snapshot"`

	// Markers set when either party's account is deleted; the
	// snapshot keeps the evidence until the retention sweep.
	ReporterDeleted   bool `gorm:"not null;default:false" json:"reporter_deleted"`
	TargetUserDeleted bool `gorm:"not null;default:false" json:"target_user_deleted"`

	ProcessedAt *time.Time `json:"processed_at"`
	ProcessedBy *uint      `json:"processed_by"`
	Version     uint       `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Report) TableName() string { return "reports" }

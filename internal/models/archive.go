package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SuspensionRecord is one entry in a user's suspension history.
type SuspensionRecord struct {
	Reason      string    `json:"reason"`
	SuspendedAt time.Time `json:"suspended_at"`
}

type SuspensionHistory []SuspensionRecord

func (h SuspensionHistory) Value() (driver.Value, error) {
	if h == nil {
		h = SuspensionHistory{}
	}
	return json.Marshal(h)
}

func (h *SuspensionHistory) Scan(src interface{}) error {
	return scanJSON(src, h)
}

// ReportHistoryEntry is a report copied into the archive at account
// deletion time, snapshot included, so the verification gate can show
// the evidence even after the live report rows are scrubbed.
type ReportHistoryEntry struct {
	ReportID    uint            `json:"report_id"`
	ReporterID  *uint           `json:"reporter_id,omitempty"`
	TargetType  string          `json:"target_type"`
	TargetID    string          `json:"target_id"`
	Reason      string          `json:"reason"`
	Status      string          `json:"status"`
	Action      *string         `json:"action,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	Snapshot    ContentSnapshot `json:"snapshot"`
}

type ReportHistory []ReportHistoryEntry

func (h ReportHistory) Value() (driver.Value, error) {
	if h == nil {
		h = ReportHistory{}
	}
	return json.Marshal(h)
}

func (h *ReportHistory) Scan(src interface{}) error {
	return scanJSON(src, h)
}

// DeletedUser is the time-boxed archive entry created when an account
// is deleted. The retention sweeper scrubs identifying fields once
// the retention window elapses; aggregate counters survive for
// statistics.
type DeletedUser struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Email    string `gorm:"size:255;not null;index" json:"email"`
	Reason   string `gorm:"type:text" json:"reason"` // self-reported deletion reason
	AgeGroup string `gorm:"size:20" json:"age_group"`

	WarningCount  int `gorm:"not null;default:0" json:"warning_count"`
	ReportedCount int `gorm:"not null;default:0" json:"reported_count"`
	ReporterCount int `gorm:"not null;default:0" json:"reporter_count"`

	SuspensionHistory SuspensionHistory `gorm:"type:json" json:"suspension_history"`
	ReportHistory     ReportHistory     `gorm:"type:json" json:"report_history"`

	UserDeletedAt time.Time  `gorm:"not null;index" json:"deleted_at"`
	ScrubbedAt    *time.Time `json:"scrubbed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (DeletedUser) TableName() string { return "deleted_users" }

// HasViolations reports whether the prior account carries any
// violation history worth gating a re-registration on.
func (d *DeletedUser) HasViolations() bool {
	return d.ReportedCount > 0 || d.WarningCount > 0 || len(d.SuspensionHistory) > 0
}

// DeletedUserSnapshot is the archive entry as embedded into a
// VerificationRequest at creation time.
type DeletedUserSnapshot struct {
	UserID            uint              `json:"user_id"`
	Email             string            `json:"email"`
	WarningCount      int               `json:"warning_count"`
	ReportedCount     int               `json:"reported_count"`
	ReporterCount     int               `json:"reporter_count"`
	SuspensionHistory SuspensionHistory `json:"suspension_history"`
	ReportHistory     ReportHistory     `json:"report_history"`
	DeletedAt         time.Time         `json:"deleted_at"`
}

func (s DeletedUserSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *DeletedUserSnapshot) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case nil:
		return nil
	}
	return errors.New("unsupported json column source")
}

package models

import "time"

// ActivityLog is the append-only audit record of every state-changing
// action. Entries are never mutated; the retention sweeper deletes a
// user's rows together with their archive entry.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ActorID   *uint     `gorm:"index" json:"actor_id"` // admin id when the action was administrative
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"` // JSON-encoded structured details
	IP        string    `gorm:"size:45" json:"ip"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

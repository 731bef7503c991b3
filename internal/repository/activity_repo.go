package repository

import (
	"encoding/json"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"

	"gorm.io/gorm"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) WithTx(tx *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: tx}
}

// Log appends an audit entry. Details are JSON-encoded; a marshal
// failure never blocks the operation being logged.
func (r *ActivityLogRepository) Log(userID uint, actorID *uint, action, ip string, details map[string]interface{}) error {
	encoded := ""
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			encoded = string(b)
		}
	}
	return r.db.Create(&models.ActivityLog{
		UserID:  userID,
		ActorID: actorID,
		Action:  action,
		Details: encoded,
		IP:      ip,
	}).Error
}

func (r *ActivityLogRepository) ListByUser(userID uint, limit int) ([]models.ActivityLog, error) {
	var list []models.ActivityLog
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// List returns recent entries, newest first, optionally filtered by
// action code.
func (r *ActivityLogRepository) List(action string, limit int) ([]models.ActivityLog, int64, error) {
	q := r.db.Model(&models.ActivityLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	var total int64
	q.Count(&total)
	var list []models.ActivityLog
	err := q.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, total, err
}

// ListByUserAndAction returns a user's entries for one action code,
// oldest first; used to reconstruct suspension history at deletion.
func (r *ActivityLogRepository) ListByUserAndAction(userID uint, action string) ([]models.ActivityLog, error) {
	var list []models.ActivityLog
	err := r.db.Where("user_id = ? AND action = ?", userID, action).Order("created_at ASC").Find(&list).Error
	return list, err
}

// DeleteByUser removes all of a user's audit rows; used only by the
// retention sweeper once the archive entry expires.
func (r *ActivityLogRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.ActivityLog{}).Error
}

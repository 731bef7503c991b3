package repository

import (
	"errors"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"

	"gorm.io/gorm"
)

type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) WithTx(tx *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: tx}
}

func (r *ArchiveRepository) Create(entry *models.DeletedUser) error {
	return r.db.Create(entry).Error
}

// GetByEmail returns the most recent unscrubbed archive entry for the
// email, or ErrNotFound.
func (r *ArchiveRepository) GetByEmail(email string) (*models.DeletedUser, error) {
	var entry models.DeletedUser
	err := r.db.Where("email = ? AND scrubbed_at IS NULL", email).
		Order("user_deleted_at DESC").First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListExpired returns unscrubbed entries whose retention window ended
// before the cutoff, oldest first, bounded by limit so sweep passes
// stay short.
func (r *ArchiveRepository) ListExpired(cutoff time.Time, limit int) ([]models.DeletedUser, error) {
	var list []models.DeletedUser
	err := r.db.Where("user_deleted_at < ? AND scrubbed_at IS NULL", cutoff).
		Order("user_deleted_at ASC").Limit(limit).Find(&list).Error
	return list, err
}

// Scrub anonymizes an entry in place: identifying fields and history
// arrays are dropped, aggregate counters stay for statistics.
func (r *ArchiveRepository) Scrub(id uint, now time.Time) error {
	return r.db.Model(&models.DeletedUser{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"email":              domain.ScrubbedValue,
			"reason":             "",
			"suspension_history": models.SuspensionHistory{},
			"report_history":     models.ReportHistory{},
			"scrubbed_at":        now,
		}).Error
}

func (r *ArchiveRepository) CountAll() (int64, error) {
	var c int64
	err := r.db.Model(&models.DeletedUser{}).Count(&c).Error
	return c, err
}

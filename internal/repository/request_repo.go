package repository

import (
	"errors"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"

	"gorm.io/gorm"
)

type UnbanRequestRepository struct {
	db *gorm.DB
}

func NewUnbanRequestRepository(db *gorm.DB) *UnbanRequestRepository {
	return &UnbanRequestRepository{db: db}
}

func (r *UnbanRequestRepository) WithTx(tx *gorm.DB) *UnbanRequestRepository {
	return &UnbanRequestRepository{db: tx}
}

func (r *UnbanRequestRepository) Create(req *models.UnbanRequest) error {
	return r.db.Create(req).Error
}

func (r *UnbanRequestRepository) GetByID(id uint) (*models.UnbanRequest, error) {
	var req models.UnbanRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *UnbanRequestRepository) List(status string, page, limit int) ([]models.UnbanRequest, int64, error) {
	q := r.db.Model(&models.UnbanRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.UnbanRequest
	err := q.Order("created_at ASC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// HasPending reports whether the user already has an open request.
func (r *UnbanRequestRepository) HasPending(userID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.UnbanRequest{}).
		Where("user_id = ? AND status = ?", userID, domain.RequestStatusPending).
		Count(&c).Error
	return c > 0, err
}

func (r *UnbanRequestRepository) GuardedDispose(id, version uint, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")
	res := r.db.Model(&models.UnbanRequest{}).
		Where("id = ? AND version = ? AND status = ?", id, version, domain.RequestStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		r.db.Model(&models.UnbanRequest{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// ScrubUser removes the departed user's email from their appeals when
// the retention window elapses. Matched by user id, never by email,
// so a live re-registration of the same address is untouched.
func (r *UnbanRequestRepository) ScrubUser(userID uint) error {
	return r.db.Model(&models.UnbanRequest{}).Where("user_id = ?", userID).
		Update("email", domain.ScrubbedValue).Error
}

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) WithTx(tx *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: tx}
}

func (r *VerificationRepository) Create(req *models.VerificationRequest) error {
	return r.db.Create(req).Error
}

func (r *VerificationRepository) GetByID(id uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *VerificationRepository) List(status string, page, limit int) ([]models.VerificationRequest, int64, error) {
	q := r.db.Model(&models.VerificationRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.VerificationRequest
	err := q.Order("created_at ASC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// HasPendingByEmail guards against a second registration attempt for
// an email whose verification is still open.
func (r *VerificationRepository) HasPendingByEmail(email string) (bool, error) {
	var c int64
	err := r.db.Model(&models.VerificationRequest{}).
		Where("email = ? AND status = ?", email, domain.RequestStatusPending).
		Count(&c).Error
	return c > 0, err
}

// ScrubUser anonymizes verification rows owned by a user whose own
// retention window elapsed: email and the embedded prior-account
// snapshot both go.
func (r *VerificationRepository) ScrubUser(userID uint) error {
	return r.db.Model(&models.VerificationRequest{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"email":    domain.ScrubbedValue,
			"snapshot": models.DeletedUserSnapshot{},
		}).Error
}

// ScrubPriorSnapshots blanks the embedded prior-account history in
// verification rows for the email once that prior account's retention
// window elapses. The row's own email column identifies the live
// re-registrant and stays.
func (r *VerificationRepository) ScrubPriorSnapshots(email string) error {
	return r.db.Model(&models.VerificationRequest{}).Where("email = ?", email).
		Update("snapshot", models.DeletedUserSnapshot{}).Error
}

func (r *VerificationRepository) GuardedDispose(id, version uint, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")
	res := r.db.Model(&models.VerificationRequest{}).
		Where("id = ? AND version = ? AND status = ?", id, version, domain.RequestStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		r.db.Model(&models.VerificationRequest{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

package repository

import (
	"errors"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"

	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) WithTx(tx *gorm.DB) *ReportRepository {
	return &ReportRepository{db: tx}
}

func (r *ReportRepository) Create(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *ReportRepository) GetByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// List returns reports oldest-first with optional status filter, so
// admins work the queue in submission order.
func (r *ReportRepository) List(status string, page, limit int) ([]models.Report, int64, error) {
	q := r.db.Model(&models.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.Report
	err := q.Order("created_at ASC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// HasOpenReport reports whether the reporter already has a pending
// report against the same target.
func (r *ReportRepository) HasOpenReport(reporterID uint, targetType, targetID string) (bool, error) {
	var c int64
	err := r.db.Model(&models.Report{}).
		Where("reporter_id = ? AND target_type = ? AND target_id = ? AND status = ?",
			reporterID, targetType, targetID, domain.ReportStatusPending).
		Count(&c).Error
	return c > 0, err
}

// GuardedDispose moves a pending report to a terminal status only if
// the version still matches. Exactly one of two racing admins wins;
// the loser sees ErrConflict, as does any retry of an already
// disposed report.
func (r *ReportRepository) GuardedDispose(id, version uint, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")
	res := r.db.Model(&models.Report{}).
		Where("id = ? AND version = ? AND status = ?", id, version, domain.ReportStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		r.db.Model(&models.Report{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *ReportRepository) CountByTargetUser(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Report{}).Where("target_user_id = ?", userID).Count(&c).Error
	return c, err
}

func (r *ReportRepository) CountByReporter(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Report{}).Where("reporter_id = ?", userID).Count(&c).Error
	return c, err
}

func (r *ReportRepository) ListByTargetUser(userID uint) ([]models.Report, error) {
	var list []models.Report
	err := r.db.Where("target_user_id = ?", userID).Order("created_at ASC").Find(&list).Error
	return list, err
}

// ClearReporter detaches a departing user from the reports they
// filed: the reporter id goes null and the row is marked. The email
// stays for the retention window so the sweeper can find the rows.
func (r *ReportRepository) ClearReporter(userID uint) error {
	return r.db.Model(&models.Report{}).Where("reporter_id = ?", userID).
		Updates(map[string]interface{}{
			"reporter_id":      nil,
			"reporter_deleted": true,
		}).Error
}

// MarkTargetDeleted tags reports against a deleted user so read
// models can render the deleted-party marker; the snapshot stays
// until the retention sweep.
func (r *ReportRepository) MarkTargetDeleted(userID uint, email string) error {
	return r.db.Model(&models.Report{}).Where("target_user_id = ?", userID).
		Updates(map[string]interface{}{
			"target_user_deleted": true,
			"target_user_email":   email,
		}).Error
}

// ScrubTarget irreversibly removes the deleted user's email and the
// content snapshot from every report that targets them.
func (r *ReportRepository) ScrubTarget(userID uint) error {
	return r.db.Unscoped().Model(&models.Report{}).Where("target_user_id = ?", userID).
		Updates(map[string]interface{}{
			"target_user_email": domain.ScrubbedValue,
			"snapshot": models.ContentSnapshot{
				Deleted:       true,
				DeletedReason: domain.TombstoneReason,
			},
		}).Error
}

// ScrubReporterByEmail irreversibly removes a former reporter's email
// and IP from every report they filed. Matched by email because the
// reporter id was nulled when the account was deleted; the
// reporter_deleted guard keeps the scrub away from reports filed by a
// live account that re-registered the same email.
func (r *ReportRepository) ScrubReporterByEmail(email string) error {
	return r.db.Unscoped().Model(&models.Report{}).
		Where("reporter_email = ? AND reporter_deleted = ?", email, true).
		Updates(map[string]interface{}{
			"reporter_email": domain.ScrubbedValue,
			"reporter_ip":    domain.ScrubbedValue,
		}).Error
}

package repository

import (
	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"

	"gorm.io/gorm"
)

// DashboardStats is the admin overview read model.
type DashboardStats struct {
	TotalUsers           int64 `json:"total_users"`
	ActiveUsers          int64 `json:"active_users"`
	SuspendedUsers       int64 `json:"suspended_users"`
	BannedUsers          int64 `json:"banned_users"`
	HeldUsers            int64 `json:"held_users"`
	PendingReports       int64 `json:"pending_reports"`
	PendingUnbanRequests int64 `json:"pending_unban_requests"`
	PendingVerifications int64 `json:"pending_verifications"`
	DeletedAccounts      int64 `json:"deleted_accounts"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	r.db.Model(&models.User{}).Count(&s.TotalUsers)
	r.db.Model(&models.User{}).Where("status = ?", domain.StatusActive).Count(&s.ActiveUsers)
	r.db.Model(&models.User{}).Where("status = ?", domain.StatusSuspended).Count(&s.SuspendedUsers)
	r.db.Model(&models.User{}).Where("status = ?", domain.StatusBanned).Count(&s.BannedUsers)
	r.db.Model(&models.User{}).Where("needs_verification = ?", true).Count(&s.HeldUsers)
	r.db.Model(&models.Report{}).Where("status = ?", domain.ReportStatusPending).Count(&s.PendingReports)
	r.db.Model(&models.UnbanRequest{}).Where("status = ?", domain.RequestStatusPending).Count(&s.PendingUnbanRequests)
	r.db.Model(&models.VerificationRequest{}).Where("status = ?", domain.RequestStatusPending).Count(&s.PendingVerifications)
	r.db.Model(&models.DeletedUser{}).Count(&s.DeletedAccounts)
	return &s, nil
}

// ListUsers returns users with search, status filter, and pagination.
func (r *AdminRepository) ListUsers(search, status string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("nickname LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var users []models.User
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

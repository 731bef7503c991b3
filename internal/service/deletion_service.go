package service

import (
	"encoding/json"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"

	"gorm.io/gorm"
)

// DeletionService handles self-service account deletion: it snapshots
// the account's violation history into the time-boxed archive, then
// removes the live account.
type DeletionService struct {
	db      *gorm.DB
	users   *repository.UserRepository
	reports *repository.ReportRepository
	archive *repository.ArchiveRepository
	logs    *repository.ActivityLogRepository
}

func NewDeletionService(db *gorm.DB, users *repository.UserRepository, reports *repository.ReportRepository, archive *repository.ArchiveRepository, logs *repository.ActivityLogRepository) *DeletionService {
	return &DeletionService{db: db, users: users, reports: reports, archive: archive, logs: logs}
}

// DeleteAccount tombstones the account into the archive and removes
// the user row. Reports the user filed keep their row with the
// reporter detached; reports against the user keep their snapshot for
// the retention window.
func (s *DeletionService) DeleteAccount(userID uint, reason, ip string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		reports := s.reports.WithTx(tx)
		logs := s.logs.WithTx(tx)

		u, err := users.GetByID(userID)
		if err != nil {
			return err
		}
		if u.IsAdmin() {
			return domain.ErrInvalidTransition
		}

		reportedCount, err := reports.CountByTargetUser(u.ID)
		if err != nil {
			return err
		}
		reporterCount, err := reports.CountByReporter(u.ID)
		if err != nil {
			return err
		}
		against, err := reports.ListByTargetUser(u.ID)
		if err != nil {
			return err
		}
		history := make(models.ReportHistory, 0, len(against))
		for _, r := range against {
			history = append(history, models.ReportHistoryEntry{
				ReportID:    r.ID,
				ReporterID:  r.ReporterID,
				TargetType:  r.TargetType,
				TargetID:    r.TargetID,
				Reason:      r.Reason,
				Status:      r.Status,
				Action:      r.Action,
				CreatedAt:   r.CreatedAt,
				ProcessedAt: r.ProcessedAt,
				Snapshot:    r.Snapshot,
			})
		}
		suspensions, err := s.suspensionHistory(logs, u)
		if err != nil {
			return err
		}

		now := time.Now()
		entry := &models.DeletedUser{
			UserID:            u.ID,
			Email:             u.Email,
			Reason:            reason,
			AgeGroup:          ageGroup(u.BirthDate, now),
			WarningCount:      u.WarningCount,
			ReportedCount:     int(reportedCount),
			ReporterCount:     int(reporterCount),
			SuspensionHistory: suspensions,
			ReportHistory:     history,
			UserDeletedAt:     now,
		}
		if err := s.archive.WithTx(tx).Create(entry); err != nil {
			return err
		}

		if err := reports.ClearReporter(u.ID); err != nil {
			return err
		}
		if err := reports.MarkTargetDeleted(u.ID, u.Email); err != nil {
			return err
		}
		if err := logs.Log(u.ID, nil, domain.LogAccountDeleted, ip, map[string]interface{}{
			"reason":         reason,
			"reported_count": reportedCount,
			"warning_count":  u.WarningCount,
		}); err != nil {
			return err
		}
		return users.Delete(u.ID)
	})
}

// suspensionHistory rebuilds the account's suspension record from the
// audit trail.
func (s *DeletionService) suspensionHistory(logs *repository.ActivityLogRepository, u *models.User) (models.SuspensionHistory, error) {
	entries, err := logs.ListByUserAndAction(u.ID, domain.LogAccountSuspended)
	if err != nil {
		return nil, err
	}
	history := make(models.SuspensionHistory, 0, len(entries))
	for _, e := range entries {
		var details struct {
			Reason string `json:"reason"`
		}
		_ = json.Unmarshal([]byte(e.Details), &details)
		history = append(history, models.SuspensionRecord{
			Reason:      details.Reason,
			SuspendedAt: e.CreatedAt,
		})
	}
	return history, nil
}

// ageGroup buckets the birth date for deletion statistics; the exact
// date never enters the archive.
func ageGroup(birthDate *time.Time, now time.Time) string {
	if birthDate == nil {
		return "unknown"
	}
	age := now.Year() - birthDate.Year()
	if now.YearDay() < birthDate.YearDay() {
		age--
	}
	switch {
	case age < 20:
		return "under-20"
	case age < 30:
		return "20s"
	case age < 40:
		return "30s"
	case age < 50:
		return "40s"
	default:
		return "50-plus"
	}
}

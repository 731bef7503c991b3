package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrSelfReport    = errors.New("cannot report your own content")
	ErrBadTargetType = errors.New("target type must be post or comment")
	ErrBadReason     = errors.New("invalid report reason")
	ErrBadAction     = errors.New("invalid disposition action")
)

// ReportService runs the abuse-report queue from submission to
// terminal disposition.
type ReportService struct {
	db       *gorm.DB
	reports  *repository.ReportRepository
	users    *repository.UserRepository
	accounts *AccountService
	logs     *repository.ActivityLogRepository
}

func NewReportService(db *gorm.DB, reports *repository.ReportRepository, users *repository.UserRepository, accounts *AccountService, logs *repository.ActivityLogRepository) *ReportService {
	return &ReportService{db: db, reports: reports, users: users, accounts: accounts, logs: logs}
}

// SubmitReportInput carries a user submission. The content snapshot
// is copied in here so the evidence survives later content deletion;
// the community store is never consulted again.
type SubmitReportInput struct {
	TargetType   string
	TargetID     string
	TargetUserID uint
	Reason       string
	Snapshot     models.ContentSnapshot
}

func (s *ReportService) Submit(reporterID uint, in SubmitReportInput, ip string) (*models.Report, error) {
	if in.TargetType != domain.TargetTypePost && in.TargetType != domain.TargetTypeComment {
		return nil, ErrBadTargetType
	}
	if !validReason(in.Reason) {
		return nil, ErrBadReason
	}
	if reporterID == in.TargetUserID {
		return nil, ErrSelfReport
	}
	reporter, err := s.users.GetByID(reporterID)
	if err != nil {
		return nil, err
	}
	// Held accounts wait for the verification decision before they
	// can act on the community.
	if reporter.NeedsVerification {
		return nil, domain.ErrUnauthorized
	}
	target, err := s.users.GetByID(in.TargetUserID)
	if err != nil {
		return nil, err
	}
	open, err := s.reports.HasOpenReport(reporterID, in.TargetType, in.TargetID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, domain.ErrDuplicateRequest
	}
	report := &models.Report{
		ReporterID:       &reporter.ID,
		ReporterNickname: reporter.Nickname,
		ReporterEmail:    reporter.Email,
		ReporterIP:       ip,
		TargetType:       in.TargetType,
		TargetID:         in.TargetID,
		TargetUserID:     target.ID,
		TargetUserEmail:  target.Email,
		Reason:           in.Reason,
		Status:           domain.ReportStatusPending,
		Snapshot:         in.Snapshot,
	}
	// The report row and its audit entry commit together.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reports.WithTx(tx).Create(report); err != nil {
			return err
		}
		return s.logs.WithTx(tx).Log(reporter.ID, nil, domain.LogReportCreated, ip, map[string]interface{}{
			"report_id":      report.ID,
			"target_type":    in.TargetType,
			"target_id":      in.TargetID,
			"target_user_id": in.TargetUserID,
			"reason":         in.Reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Dispose applies an admin decision to a pending report. The report
// mutation and the account side effect commit in one transaction, so
// a processed report always has its corresponding account effect.
// A report that is no longer pending, whether already disposed or
// disposed concurrently by another admin, yields ErrConflict;
// re-disposition is not supported.
func (s *ReportService) Dispose(reportID, version uint, actorID uint, action, ip string) (*models.Report, error) {
	if action != domain.ActionSuspend && action != domain.ActionWarning && action != domain.ActionIgnore {
		return nil, ErrBadAction
	}
	var out *models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reports := s.reports.WithTx(tx)
		report, err := reports.GetByID(reportID)
		if err != nil {
			return err
		}
		if version == 0 {
			version = report.Version
		}
		now := time.Now()
		if err := reports.GuardedDispose(reportID, version, map[string]interface{}{
			"status":       domain.ReportStatusProcessed,
			"action":       action,
			"processed_at": now,
			"processed_by": actorID,
		}); err != nil {
			return err
		}
		// Account effect. A target deleted since submission still
		// lets the report reach its terminal state.
		_, err = s.users.WithTx(tx).GetByID(report.TargetUserID)
		targetGone := errors.Is(err, domain.ErrNotFound)
		if err != nil && !targetGone {
			return err
		}
		if !targetGone {
			switch action {
			case domain.ActionSuspend:
				reason := fmt.Sprintf("report upheld - %s (%s %s)", report.Reason, report.TargetType, report.TargetID)
				if err := s.accounts.SuspendTx(tx, report.TargetUserID, reason, actorID, ip); err != nil {
					return err
				}
			case domain.ActionWarning:
				if err := s.accounts.IncrementWarningTx(tx, report.TargetUserID, actorID, ip); err != nil {
					return err
				}
			case domain.ActionIgnore:
				// No account effect.
			}
		}
		if err := s.logs.WithTx(tx).Log(report.TargetUserID, &actorID, domain.LogReportDisposed, ip, map[string]interface{}{
			"report_id":      report.ID,
			"action":         action,
			"target_deleted": targetGone,
		}); err != nil {
			return err
		}
		out, err = reports.GetByID(reportID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reject marks a malformed or frivolous report rejected without
// touching the account store.
func (s *ReportService) Reject(reportID, version uint, actorID uint, ip string) (*models.Report, error) {
	var out *models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reports := s.reports.WithTx(tx)
		report, err := reports.GetByID(reportID)
		if err != nil {
			return err
		}
		if version == 0 {
			version = report.Version
		}
		now := time.Now()
		if err := reports.GuardedDispose(reportID, version, map[string]interface{}{
			"status":       domain.ReportStatusRejected,
			"processed_at": now,
			"processed_by": actorID,
		}); err != nil {
			return err
		}
		if err := s.logs.WithTx(tx).Log(report.TargetUserID, &actorID, domain.LogReportRejected, ip, map[string]interface{}{
			"report_id": report.ID,
		}); err != nil {
			return err
		}
		out, err = reports.GetByID(reportID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func validReason(reason string) bool {
	for _, r := range domain.ReportReasons {
		if reason == r {
			return true
		}
	}
	return false
}

package service

import (
	"errors"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"

	"gorm.io/gorm"
)

// VerificationService is the re-registration gate: new accounts whose
// email matches an archived deletion record with violation history
// are held until an admin approves or rejects the re-registration.
type VerificationService struct {
	db       *gorm.DB
	verifs   *repository.VerificationRepository
	users    *repository.UserRepository
	archive  *repository.ArchiveRepository
	accounts *AccountService
	logs     *repository.ActivityLogRepository
}

func NewVerificationService(db *gorm.DB, verifs *repository.VerificationRepository, users *repository.UserRepository, archive *repository.ArchiveRepository, accounts *AccountService, logs *repository.ActivityLogRepository) *VerificationService {
	return &VerificationService{db: db, verifs: verifs, users: users, archive: archive, accounts: accounts, logs: logs}
}

// GateRegistration rejects a registration attempt outright while a
// verification for the same email is still pending.
func (s *VerificationService) GateRegistration(email string) error {
	pending, err := s.verifs.HasPendingByEmail(email)
	if err != nil {
		return err
	}
	if pending {
		return domain.ErrDuplicateRequest
	}
	return nil
}

// CheckPriorViolations runs at registration completion. When the
// email matches an unexpired archive entry with nonzero violation
// history it opens a pending verification request, embeds the full
// snapshot, and places the account on hold. Returns whether the
// account was held.
func (s *VerificationService) CheckPriorViolations(u *models.User, ip string) (bool, error) {
	prior, err := s.archive.GetByEmail(u.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !prior.HasViolations() {
		return false, nil
	}
	held := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		req := &models.VerificationRequest{
			UserID:   u.ID,
			Email:    u.Email,
			Nickname: u.Nickname,
			Status:   domain.RequestStatusPending,
			Snapshot: models.DeletedUserSnapshot{
				UserID:            prior.UserID,
				Email:             prior.Email,
				WarningCount:      prior.WarningCount,
				ReportedCount:     prior.ReportedCount,
				ReporterCount:     prior.ReporterCount,
				SuspensionHistory: prior.SuspensionHistory,
				ReportHistory:     prior.ReportHistory,
				DeletedAt:         prior.UserDeletedAt,
			},
		}
		if err := s.verifs.WithTx(tx).Create(req); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", u.ID).
			Update("needs_verification", true).Error; err != nil {
			return err
		}
		held = true
		return s.logs.WithTx(tx).Log(u.ID, nil, domain.LogVerificationOpened, ip, map[string]interface{}{
			"request_id":     req.ID,
			"prior_user_id":  prior.UserID,
			"reported_count": prior.ReportedCount,
			"warning_count":  prior.WarningCount,
		})
	})
	if err != nil {
		return false, err
	}
	return held, nil
}

// Dispose applies the admin decision on a held re-registration.
// Approval releases the hold; rejection bans the account with a
// system-generated reason and releases the hold as banned.
func (s *VerificationService) Dispose(requestID, version uint, actorID uint, decision, ip string) (*models.VerificationRequest, error) {
	if decision != domain.DecisionApprove && decision != domain.DecisionReject {
		return nil, ErrBadDecision
	}
	var out *models.VerificationRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		verifs := s.verifs.WithTx(tx)
		req, err := verifs.GetByID(requestID)
		if err != nil {
			return err
		}
		if version == 0 {
			version = req.Version
		}
		status := domain.RequestStatusRejected
		if decision == domain.DecisionApprove {
			status = domain.RequestStatusApproved
		}
		now := time.Now()
		if err := verifs.GuardedDispose(requestID, version, map[string]interface{}{
			"status":       status,
			"processed_at": now,
			"processed_by": actorID,
		}); err != nil {
			return err
		}
		if decision == domain.DecisionReject {
			if err := s.accounts.BanTx(tx, req.UserID, domain.BanReasonReRegistration, actorID, ip); err != nil {
				return err
			}
		}
		if err := s.accounts.ReleaseHoldTx(tx, req.UserID); err != nil {
			return err
		}
		if err := s.logs.WithTx(tx).Log(req.UserID, &actorID, domain.LogVerifDisposed, ip, map[string]interface{}{
			"request_id": req.ID,
			"decision":   decision,
		}); err != nil {
			return err
		}
		out, err = verifs.GetByID(requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

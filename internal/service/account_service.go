package service

import (
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"

	"gorm.io/gorm"
)

// AccountService owns every trust-state transition. Direct admin
// action, report disposition, unban approval and verification
// rejection all go through these operations so the same invariant
// checks and audit hook apply.
type AccountService struct {
	db        *gorm.DB
	users     *repository.UserRepository
	logs      *repository.ActivityLogRepository
	threshold int
}

func NewAccountService(db *gorm.DB, users *repository.UserRepository, logs *repository.ActivityLogRepository, warningThreshold int) *AccountService {
	return &AccountService{db: db, users: users, logs: logs, threshold: warningThreshold}
}

// WarningThreshold returns the configured informational threshold.
func (s *AccountService) WarningThreshold() int { return s.threshold }

func (s *AccountService) Suspend(userID uint, reason string, actorID uint, ip string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.SuspendTx(tx, userID, reason, actorID, ip)
	})
}

// SuspendTx applies a suspension inside an existing transaction so
// callers like report disposition commit the account effect together
// with their own mutation.
func (s *AccountService) SuspendTx(tx *gorm.DB, userID uint, reason string, actorID uint, ip string) error {
	users := s.users.WithTx(tx)
	u, err := users.GetByID(userID)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return domain.ErrInvalidTransition
	}
	if u.Status == domain.StatusBanned {
		// A ban outranks a suspension.
		return domain.ErrInvalidTransition
	}
	now := time.Now()
	if err := users.GuardedUpdate(u.ID, u.Version, map[string]interface{}{
		"status":         domain.StatusSuspended,
		"suspended_at":   now,
		"suspend_reason": reason,
	}); err != nil {
		return err
	}
	return s.logs.WithTx(tx).Log(u.ID, &actorID, domain.LogAccountSuspended, ip, map[string]interface{}{
		"reason":          reason,
		"previous_status": u.Status,
	})
}

func (s *AccountService) Ban(userID uint, reason string, actorID uint, ip string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.BanTx(tx, userID, reason, actorID, ip)
	})
}

func (s *AccountService) BanTx(tx *gorm.DB, userID uint, reason string, actorID uint, ip string) error {
	users := s.users.WithTx(tx)
	u, err := users.GetByID(userID)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return domain.ErrInvalidTransition
	}
	now := time.Now()
	if err := users.GuardedUpdate(u.ID, u.Version, map[string]interface{}{
		"status":     domain.StatusBanned,
		"banned_at":  now,
		"ban_reason": reason,
	}); err != nil {
		return err
	}
	return s.logs.WithTx(tx).Log(u.ID, &actorID, domain.LogAccountBanned, ip, map[string]interface{}{
		"reason":          reason,
		"previous_status": u.Status,
	})
}

// Activate is the only transition out of suspended/banned back to
// active. Activating an already-active account is a no-op, not an
// error.
func (s *AccountService) Activate(userID uint, actorID uint, ip string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.ActivateTx(tx, userID, actorID, ip)
	})
}

func (s *AccountService) ActivateTx(tx *gorm.DB, userID uint, actorID uint, ip string) error {
	users := s.users.WithTx(tx)
	u, err := users.GetByID(userID)
	if err != nil {
		return err
	}
	if u.Status == domain.StatusActive {
		return nil
	}
	if err := users.GuardedUpdate(u.ID, u.Version, map[string]interface{}{
		"status":         domain.StatusActive,
		"suspended_at":   nil,
		"banned_at":      nil,
		"suspend_reason": nil,
		"ban_reason":     nil,
	}); err != nil {
		return err
	}
	return s.logs.WithTx(tx).Log(u.ID, &actorID, domain.LogAccountActivated, ip, map[string]interface{}{
		"previous_status": u.Status,
	})
}

// IncrementWarning bumps the warning counter by exactly one. It never
// changes the account status; crossing the threshold is a derived
// signal administrators act on manually.
func (s *AccountService) IncrementWarning(userID uint, actorID uint, ip string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.IncrementWarningTx(tx, userID, actorID, ip)
	})
}

func (s *AccountService) IncrementWarningTx(tx *gorm.DB, userID uint, actorID uint, ip string) error {
	users := s.users.WithTx(tx)
	u, err := users.GetByID(userID)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return domain.ErrInvalidTransition
	}
	if err := users.GuardedUpdate(u.ID, u.Version, map[string]interface{}{
		"warning_count": gorm.Expr("warning_count + 1"),
	}); err != nil {
		return err
	}
	return s.logs.WithTx(tx).Log(u.ID, &actorID, domain.LogWarningIssued, ip, map[string]interface{}{
		"warning_count": u.WarningCount + 1,
	})
}

// ReleaseHoldTx clears the verification hold inside a transaction.
// Runs after a guarded status change in the same transaction, so the
// row lock already serializes it.
func (s *AccountService) ReleaseHoldTx(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).Update("needs_verification", false).Error
}

package service

import (
	"errors"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"

	"gorm.io/gorm"
)

var ErrBadDecision = errors.New("decision must be approve or reject")

// UnbanService is the appeal channel for suspended and banned users.
type UnbanService struct {
	db       *gorm.DB
	requests *repository.UnbanRequestRepository
	users    *repository.UserRepository
	accounts *AccountService
	logs     *repository.ActivityLogRepository
}

func NewUnbanService(db *gorm.DB, requests *repository.UnbanRequestRepository, users *repository.UserRepository, accounts *AccountService, logs *repository.ActivityLogRepository) *UnbanService {
	return &UnbanService{db: db, requests: requests, users: users, accounts: accounts, logs: logs}
}

// Request opens an appeal. Only suspended or banned accounts are
// eligible, and only one request may be pending per user.
func (s *UnbanService) Request(userID uint, reason, ip string) (*models.UnbanRequest, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !u.Restricted() {
		return nil, domain.ErrInvalidTransition
	}
	pending, err := s.requests.HasPending(userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrDuplicateRequest
	}
	req := &models.UnbanRequest{
		UserID:        u.ID,
		Email:         u.Email,
		Reason:        reason,
		CurrentStatus: u.Status,
		Status:        domain.RequestStatusPending,
	}
	// The request row and its audit entry commit together.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requests.WithTx(tx).Create(req); err != nil {
			return err
		}
		return s.logs.WithTx(tx).Log(u.ID, nil, domain.LogUnbanRequested, ip, map[string]interface{}{
			"request_id":     req.ID,
			"current_status": u.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Dispose applies an admin decision. Approval reinstates the account
// through the account store; rejection leaves the trust state alone.
func (s *UnbanService) Dispose(requestID, version uint, actorID uint, decision, ip string) (*models.UnbanRequest, error) {
	if decision != domain.DecisionApprove && decision != domain.DecisionReject {
		return nil, ErrBadDecision
	}
	var out *models.UnbanRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		requests := s.requests.WithTx(tx)
		req, err := requests.GetByID(requestID)
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
		if err := requests.GuardedDispose(requestID, version, map[string]interface{}{
			"status":       status,
			"processed_at": now,
			"processed_by": actorID,
		}); err != nil {
			return err
		}
		if decision == domain.DecisionApprove {
			if err := s.accounts.ActivateTx(tx, req.UserID, actorID, ip); err != nil {
				return err
			}
		}
		if err := s.logs.WithTx(tx).Log(req.UserID, &actorID, domain.LogUnbanDisposed, ip, map[string]interface{}{
			"request_id": req.ID,
			"decision":   decision,
		}); err != nil {
			return err
		}
		out, err = requests.GetByID(requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

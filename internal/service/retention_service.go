package service

import (
	"context"
	"log"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/config"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"

	"gorm.io/gorm"
)

// RetentionService scrubs archive entries whose retention window has
// elapsed. Eligibility is decided solely by the account's deletion
// time, so a sweep that crashed halfway can be rerun safely.
type RetentionService struct {
	db      *gorm.DB
	archive *repository.ArchiveRepository
	reports *repository.ReportRepository
	unbans  *repository.UnbanRequestRepository
	verifs  *repository.VerificationRepository
	logs    *repository.ActivityLogRepository
	cfg     config.ModerationConfig
}

func NewRetentionService(db *gorm.DB, archive *repository.ArchiveRepository, reports *repository.ReportRepository, unbans *repository.UnbanRequestRepository, verifs *repository.VerificationRepository, logs *repository.ActivityLogRepository, cfg config.ModerationConfig) *RetentionService {
	return &RetentionService{db: db, archive: archive, reports: reports, unbans: unbans, verifs: verifs, logs: logs, cfg: cfg}
}

// Sweep scrubs every expired archive entry and returns how many were
// processed. Each entry is scrubbed in its own transaction so one bad
// row cannot wedge the whole run.
func (s *RetentionService) Sweep(now time.Time) (int, error) {
	cutoff := now.Add(-s.cfg.RetentionWindow())
	total := 0
	for {
		batch, err := s.archive.ListExpired(cutoff, s.cfg.SweepChunkSize)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}
		for _, entry := range batch {
			if err := s.scrubEntry(entry.ID, entry.UserID, entry.Email, now); err != nil {
				return total, err
			}
			total++
		}
	}
}

func (s *RetentionService) scrubEntry(entryID, userID uint, email string, now time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		reports := s.reports.WithTx(tx)
		if err := reports.ScrubTarget(userID); err != nil {
			return err
		}
		if err := reports.ScrubReporterByEmail(email); err != nil {
			return err
		}
		if err := s.unbans.WithTx(tx).ScrubUser(userID); err != nil {
			return err
		}
		verifs := s.verifs.WithTx(tx)
		if err := verifs.ScrubUser(userID); err != nil {
			return err
		}
		if err := verifs.ScrubPriorSnapshots(email); err != nil {
			return err
		}
		if err := s.logs.WithTx(tx).DeleteByUser(userID); err != nil {
			return err
		}
		return s.archive.WithTx(tx).Scrub(entryID, now)
	})
}

// Run sweeps once immediately, then on every tick, until ctx is
// cancelled.
func (s *RetentionService) Run(ctx context.Context) {
	if n, err := s.Sweep(time.Now()); err != nil {
		log.Printf("retention sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("retention sweep scrubbed %d archive entries", n)
	}

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.Sweep(time.Now()); err != nil {
				log.Printf("retention sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("retention sweep scrubbed %d archive entries", n)
			}
		}
	}
}

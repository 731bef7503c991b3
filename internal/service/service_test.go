package service

import (
	"testing"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/database"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testThreshold = 5

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// fixture bundles the repositories and services most tests need.
type fixture struct {
	db       *gorm.DB
	users    *repository.UserRepository
	reports  *repository.ReportRepository
	unbans   *repository.UnbanRequestRepository
	verifs   *repository.VerificationRepository
	archive  *repository.ArchiveRepository
	logs     *repository.ActivityLogRepository
	accounts *AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:      db,
		users:   repository.NewUserRepository(db),
		reports: repository.NewReportRepository(db),
		unbans:  repository.NewUnbanRequestRepository(db),
		verifs:  repository.NewVerificationRepository(db),
		archive: repository.NewArchiveRepository(db),
		logs:    repository.NewActivityLogRepository(db),
	}
	f.accounts = NewAccountService(db, f.users, f.logs, testThreshold)
	return f
}

func (f *fixture) reportService() *ReportService {
	return NewReportService(f.db, f.reports, f.users, f.accounts, f.logs)
}

func (f *fixture) unbanService() *UnbanService {
	return NewUnbanService(f.db, f.unbans, f.users, f.accounts, f.logs)
}

func (f *fixture) verificationService() *VerificationService {
	return NewVerificationService(f.db, f.verifs, f.users, f.archive, f.accounts, f.logs)
}

func (f *fixture) createUser(t *testing.T, email, nickname string) *models.User {
	t.Helper()
	u := &models.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: "x",
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		Version:      1,
	}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) createAdmin(t *testing.T) *models.User {
	t.Helper()
	u := &models.User{
		Email:    "admin@example.com",
		Nickname: "admin",
		Role:     domain.RoleAdmin,
		Status:   domain.StatusActive,
		Version:  1,
	}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) reload(t *testing.T, id uint) *models.User {
	t.Helper()
	u, err := f.users.GetByID(id)
	require.NoError(t, err)
	return u
}

func (f *fixture) countLogs(t *testing.T, userID uint, action string) int {
	t.Helper()
	entries, err := f.logs.ListByUserAndAction(userID, action)
	require.NoError(t, err)
	return len(entries)
}

func (f *fixture) submitReport(t *testing.T, reporterID, targetID uint, targetContentID string) *models.Report {
	t.Helper()
	r, err := f.reportService().Submit(reporterID, SubmitReportInput{
		TargetType:   domain.TargetTypePost,
		TargetID:     targetContentID,
		TargetUserID: targetID,
		Reason:       "abuse",
		Snapshot: models.ContentSnapshot{
			Title:     "a bad post",
			Body:      "offending content",
			Mood:      "angry",
			CreatedAt: time.Now(),
		},
	}, "10.0.0.1")
	require.NoError(t, err)
	return r
}

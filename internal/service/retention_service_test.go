package service

import (
	"testing"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/config"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) retentionService() *RetentionService {
	return NewRetentionService(f.db, f.archive, f.reports, f.unbans, f.verifs, f.logs, config.ModerationConfig{
		WarningThreshold: testThreshold,
		RetentionDays:    365,
		SweepInterval:    24 * time.Hour,
		SweepChunkSize:   2,
	})
}

func TestRetentionSweep(t *testing.T) {
	f := newFixture(t)
	svc := f.retentionService()
	now := time.Now()

	seed := func(t *testing.T, userID uint, email string, deletedAt time.Time) {
		t.Helper()
		require.NoError(t, f.archive.Create(&models.DeletedUser{
			UserID:        userID,
			Email:         email,
			Reason:        "left",
			WarningCount:  2,
			ReportedCount: 1,
			SuspensionHistory: models.SuspensionHistory{
				{Reason: "spam", SuspendedAt: deletedAt.Add(-time.Hour)},
			},
			UserDeletedAt: deletedAt,
		}))
	}

	t.Run("expired entries are scrubbed end to end", func(t *testing.T) {
		seed(t, 10, "old@example.com", now.Add(-400*24*time.Hour))
		require.NoError(t, f.db.Create(&models.Report{
			ReporterEmail:   "old@example.com",
			ReporterIP:      "10.0.0.9",
			TargetType:      domain.TargetTypePost,
			TargetID:        "post-1",
			TargetUserID:    99,
			Status:          domain.ReportStatusPending,
			ReporterDeleted: true,
			Version:         1,
		}).Error)
		require.NoError(t, f.db.Create(&models.Report{
			ReporterEmail:   "bystander@example.com",
			TargetType:      domain.TargetTypePost,
			TargetID:        "post-2",
			TargetUserID:    10,
			TargetUserEmail: "old@example.com",
			Status:          domain.ReportStatusProcessed,
			Snapshot:        models.ContentSnapshot{Body: "evidence"},
			Version:         2,
		}).Error)
		require.NoError(t, f.logs.Log(10, nil, domain.LogAccountDeleted, "10.0.0.9", nil))

		n, err := svc.Sweep(now)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		var entry models.DeletedUser
		require.NoError(t, f.db.Where("user_id = ?", 10).First(&entry).Error)
		assert.Equal(t, domain.ScrubbedValue, entry.Email)
		assert.NotNil(t, entry.ScrubbedAt)
		assert.Empty(t, entry.Reason)
		assert.Empty(t, entry.SuspensionHistory)
		// Aggregate counters survive for statistics.
		assert.Equal(t, 2, entry.WarningCount)
		assert.Equal(t, 1, entry.ReportedCount)

		var filed models.Report
		require.NoError(t, f.db.Where("target_id = ?", "post-1").First(&filed).Error)
		assert.Equal(t, domain.ScrubbedValue, filed.ReporterEmail)
		assert.Equal(t, domain.ScrubbedValue, filed.ReporterIP)

		var against models.Report
		require.NoError(t, f.db.Where("target_id = ?", "post-2").First(&against).Error)
		assert.Equal(t, domain.ScrubbedValue, against.TargetUserEmail)
		assert.True(t, against.Snapshot.Deleted)
		assert.Equal(t, domain.TombstoneReason, against.Snapshot.DeletedReason)
		assert.Empty(t, against.Snapshot.Body)
		// The bystander reporter is untouched.
		assert.Equal(t, "bystander@example.com", against.ReporterEmail)

		trail, err := f.logs.ListByUser(10, 10)
		require.NoError(t, err)
		assert.Empty(t, trail)
	})

	t.Run("reports by a live account that reused the email are untouched", func(t *testing.T) {
		seed(t, 12, "reused@example.com", now.Add(-400*24*time.Hour))
		live := uint(55)
		require.NoError(t, f.db.Create(&models.Report{
			ReporterID:    &live,
			ReporterEmail: "reused@example.com",
			ReporterIP:    "10.0.0.5",
			TargetType:    domain.TargetTypePost,
			TargetID:      "post-live",
			TargetUserID:  99,
			Status:        domain.ReportStatusPending,
			Version:       1,
		}).Error)

		_, err := svc.Sweep(now)
		require.NoError(t, err)

		var got models.Report
		require.NoError(t, f.db.Where("target_id = ?", "post-live").First(&got).Error)
		assert.Equal(t, "reused@example.com", got.ReporterEmail)
		assert.Equal(t, "10.0.0.5", got.ReporterIP)
	})

	t.Run("fresh entries are left alone", func(t *testing.T) {
		seed(t, 11, "recent@example.com", now.Add(-30*24*time.Hour))

		n, err := svc.Sweep(now)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		entry, err := f.archive.GetByEmail("recent@example.com")
		require.NoError(t, err)
		assert.Nil(t, entry.ScrubbedAt)
	})

	t.Run("sweep drains batches larger than the chunk size", func(t *testing.T) {
		for i := uint(20); i < 25; i++ {
			seed(t, i, "bulk@example.com", now.Add(-500*24*time.Hour))
		}
		n, err := svc.Sweep(now)
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		// Rerunning finds nothing left.
		n, err = svc.Sweep(now)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

// A deleted account's email becomes reusable immediately, so the
// expiry of the old archive entry must only scrub the old account's
// rows, never reports a re-registered live account filed since.
func TestRetentionSweepAfterEmailReuse(t *testing.T) {
	f := newFixture(t)
	svc := f.retentionService()
	now := time.Now()

	first := f.createUser(t, "shared@example.com", "first")
	target := f.createUser(t, "victim@example.com", "victim")
	old := f.submitReport(t, first.ID, target.ID, "post-old")

	require.NoError(t, f.deletionService().DeleteAccount(first.ID, "leaving", "10.0.0.1"))
	require.NoError(t, f.db.Model(&models.DeletedUser{}).
		Where("email = ?", "shared@example.com").
		Update("user_deleted_at", now.Add(-400*24*time.Hour)).Error)

	reborn := f.createUser(t, "shared@example.com", "reborn")
	fresh := f.submitReport(t, reborn.ID, target.ID, "post-new")

	n, err := svc.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	scrubbed, err := f.reports.GetByID(old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScrubbedValue, scrubbed.ReporterEmail)
	assert.Equal(t, domain.ScrubbedValue, scrubbed.ReporterIP)

	kept, err := f.reports.GetByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "shared@example.com", kept.ReporterEmail)
	assert.Equal(t, "10.0.0.1", kept.ReporterIP)
	assert.False(t, kept.ReporterDeleted)
}

// Unban and verification rows carry the email past account deletion;
// the sweep has to anonymize them with the rest of the history.
func TestRetentionSweepRequestRows(t *testing.T) {
	f := newFixture(t)
	svc := f.retentionService()
	admin := f.createAdmin(t)
	now := time.Now()

	t.Run("unban request email is scrubbed with its owner", func(t *testing.T) {
		u := f.createUser(t, "appealer@example.com", "appealer")
		require.NoError(t, f.accounts.Suspend(u.ID, "bad", admin.ID, "127.0.0.1"))
		req, err := f.unbanService().Request(u.ID, "please let me back", "10.0.0.1")
		require.NoError(t, err)
		require.NoError(t, f.accounts.Activate(u.ID, admin.ID, "127.0.0.1"))
		require.NoError(t, f.deletionService().DeleteAccount(u.ID, "", "10.0.0.1"))
		require.NoError(t, f.db.Model(&models.DeletedUser{}).
			Where("email = ?", "appealer@example.com").
			Update("user_deleted_at", now.Add(-400*24*time.Hour)).Error)

		_, err = svc.Sweep(now)
		require.NoError(t, err)

		got, err := f.unbans.GetByID(req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ScrubbedValue, got.Email)
	})

	t.Run("prior-account snapshot inside a verification row is blanked", func(t *testing.T) {
		f.archiveEntry(t, "returning@example.com", 3, 4)
		reborn := f.createUser(t, "returning@example.com", "returning")
		held, err := f.verificationService().CheckPriorViolations(reborn, "10.0.0.2")
		require.NoError(t, err)
		require.True(t, held)
		require.NoError(t, f.db.Model(&models.DeletedUser{}).
			Where("email = ? AND scrubbed_at IS NULL", "returning@example.com").
			Update("user_deleted_at", now.Add(-400*24*time.Hour)).Error)

		_, err = svc.Sweep(now)
		require.NoError(t, err)

		rows, _, err := f.verifs.List("", 1, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		// The row identifies the live re-registrant; the embedded
		// history does not outlive the prior account's window.
		assert.Equal(t, "returning@example.com", rows[0].Email)
		assert.Zero(t, rows[0].Snapshot.WarningCount)
		assert.Zero(t, rows[0].Snapshot.ReportedCount)
		assert.Empty(t, rows[0].Snapshot.SuspensionHistory)
		assert.Empty(t, rows[0].Snapshot.ReportHistory)
		assert.Empty(t, rows[0].Snapshot.Email)
	})
}

package service

import (
	"testing"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) deletionService() *DeletionService {
	return NewDeletionService(f.db, f.users, f.reports, f.archive, f.logs)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	svc := f.deletionService()
	admin := f.createAdmin(t)

	t.Run("archives the violation history before removing the row", func(t *testing.T) {
		bd := time.Now().AddDate(-27, 0, 0)
		u := f.createUser(t, "leaving@example.com", "leaving")
		require.NoError(t, f.db.Model(u).Update("birth_date", bd).Error)

		reporter := f.createUser(t, "witness@example.com", "witness")
		r := f.submitReport(t, reporter.ID, u.ID, "post-1")
		_, err := f.reportService().Dispose(r.ID, r.Version, admin.ID, domain.ActionSuspend, "127.0.0.1")
		require.NoError(t, err)
		require.NoError(t, f.accounts.Activate(u.ID, admin.ID, "127.0.0.1"))

		require.NoError(t, svc.DeleteAccount(u.ID, "taking a break", "10.0.0.1"))

		_, err = f.users.GetByID(u.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		entry, err := f.archive.GetByEmail("leaving@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, entry.UserID)
		assert.Equal(t, "taking a break", entry.Reason)
		assert.Equal(t, "20s", entry.AgeGroup)
		assert.Equal(t, 1, entry.ReportedCount)
		assert.Equal(t, 0, entry.ReporterCount)
		require.Len(t, entry.SuspensionHistory, 1)
		assert.Contains(t, entry.SuspensionHistory[0].Reason, "abuse")
		require.Len(t, entry.ReportHistory, 1)
		assert.Equal(t, r.ID, entry.ReportHistory[0].ReportID)
		assert.Equal(t, "offending content", entry.ReportHistory[0].Snapshot.Body)
		assert.True(t, entry.HasViolations())

		// Reports against the user stay, flagged.
		remaining, err := f.reports.ListByTargetUser(u.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.True(t, remaining[0].TargetUserDeleted)
	})

	t.Run("filed reports survive with the reporter detached", func(t *testing.T) {
		reporter := f.createUser(t, "filer@example.com", "filer")
		target := f.createUser(t, "subject@example.com", "subject")
		r := f.submitReport(t, reporter.ID, target.ID, "post-2")

		require.NoError(t, svc.DeleteAccount(reporter.ID, "", "10.0.0.1"))

		got, err := f.reports.GetByID(r.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ReporterID)
		assert.True(t, got.ReporterDeleted)
		assert.Equal(t, "filer@example.com", got.ReporterEmail)
		assert.Equal(t, domain.ReportStatusPending, got.Status)
	})

	t.Run("no birth date buckets as unknown", func(t *testing.T) {
		u := f.createUser(t, "ageless@example.com", "ageless")
		require.NoError(t, svc.DeleteAccount(u.ID, "", "10.0.0.1"))

		entry, err := f.archive.GetByEmail("ageless@example.com")
		require.NoError(t, err)
		assert.Equal(t, "unknown", entry.AgeGroup)
		assert.False(t, entry.HasViolations())
	})

	t.Run("admin accounts cannot be deleted", func(t *testing.T) {
		err := svc.DeleteAccount(admin.ID, "", "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("email becomes reusable immediately", func(t *testing.T) {
		u := f.createUser(t, "reuse@example.com", "reuse1")
		require.NoError(t, svc.DeleteAccount(u.ID, "", "10.0.0.1"))
		f.createUser(t, "reuse@example.com", "reuse2")
	})
}

func TestAgeGroup(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		years int
		want  string
	}{
		{17, "under-20"},
		{20, "20s"},
		{29, "20s"},
		{34, "30s"},
		{45, "40s"},
		{61, "50-plus"},
	}
	for _, tc := range cases {
		bd := now.AddDate(-tc.years, 0, -1)
		assert.Equal(t, tc.want, ageGroup(&bd, now), "age %d", tc.years)
	}
	assert.Equal(t, "unknown", ageGroup(nil, now))
}

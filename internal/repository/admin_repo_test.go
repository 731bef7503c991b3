package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
}

func TestGetDashboardStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	// One count per panel, in issue order.
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").WillReturnRows(countRows(120))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").WithArgs("active").WillReturnRows(countRows(100))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").WithArgs("suspended").WillReturnRows(countRows(12))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").WithArgs("banned").WillReturnRows(countRows(8))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").WithArgs(true).WillReturnRows(countRows(3))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `reports`").WithArgs("pending").WillReturnRows(countRows(7))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `unban_requests`").WithArgs("pending").WillReturnRows(countRows(2))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `verification_requests`").WithArgs("pending").WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `deleted_users`").WillReturnRows(countRows(40))

	stats, err := repo.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(120), stats.TotalUsers)
	assert.Equal(t, int64(100), stats.ActiveUsers)
	assert.Equal(t, int64(12), stats.SuspendedUsers)
	assert.Equal(t, int64(8), stats.BannedUsers)
	assert.Equal(t, int64(3), stats.HeldUsers)
	assert.Equal(t, int64(7), stats.PendingReports)
	assert.Equal(t, int64(2), stats.PendingUnbanRequests)
	assert.Equal(t, int64(1), stats.PendingVerifications)
	assert.Equal(t, int64(40), stats.DeletedAccounts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	t.Run("status filter with pagination", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
			WithArgs("suspended").
			WillReturnRows(countRows(25))
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WithArgs("suspended", 10, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "nickname", "status"}).
				AddRow(1, "a@example.com", "alice", "suspended").
				AddRow(2, "b@example.com", "bob", "suspended"))

		users, total, err := repo.ListUsers("", "suspended", 2, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Nickname)
	})

	t.Run("search matches nickname and email", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
			WithArgs("%ali%", "%ali%").
			WillReturnRows(countRows(1))
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WithArgs("%ali%", "%ali%", 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "nickname"}).
				AddRow(1, "a@example.com", "alice"))

		users, total, err := repo.ListUsers("ali", "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhub/backend/internal/domain/billing"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Driver-level error paths are easier to provoke with sqlmock than with a
// real database.
func setupMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestGormStoreQueryErrorAborts(t *testing.T) {
	store, mock := setupMockStore(t)
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "plans"`).WillReturnError(dbErr)
	mock.ExpectRollback()

	err := store.Atomically(ctx, func(tx billing.Tx) error {
		_, err := tx.Plans().FindByID(ctx, 1)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreCommitOnSuccess(t *testing.T) {
	store, mock := setupMockStore(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "next_plan_id", "next_payment_id", "total_revenue", "active_subscribers"}).
		AddRow(1, 4, 9, 12000, 3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "billing_counters"`).WillReturnRows(rows)
	mock.ExpectCommit()

	var stats billing.RevenueStats
	err := store.View(ctx, func(tx billing.Tx) error {
		var err error
		stats, err = tx.Counters().Stats(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), stats.TotalRevenue)
	assert.Equal(t, int64(3), stats.ActiveSubscribers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

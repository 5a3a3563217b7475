package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkease/internal/db"
	apperrors "parkease/internal/errors"
)

func newMockDB(t *testing.T) (*SpotRepository, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewSpotRepository(database), mock
}

func TestSpotRepository_CreateSpots(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO parking_spots`)).
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.CreateSpots(context.Background(), repo.DB, 7, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepository_CreateSpotsZeroCountIsNoop(t *testing.T) {
	repo, mock := newMockDB(t)

	err := repo.CreateSpots(context.Background(), repo.DB, 7, 0)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepository_SetStatusIf(t *testing.T) {
	t.Run("flips an available spot", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE parking_spots SET status = $3 WHERE id = $1 AND status = $2`)).
			WithArgs(5, db.SpotAvailable, db.SpotOccupied).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetStatusIf(context.Background(), repo.DB, 5, db.SpotAvailable, db.SpotOccupied)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("occupied spot is unavailable", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE parking_spots SET status = $3 WHERE id = $1 AND status = $2`)).
			WithArgs(5, db.SpotAvailable, db.SpotOccupied).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM parking_spots WHERE id = $1`)).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(db.SpotOccupied))

		err := repo.SetStatusIf(context.Background(), repo.DB, 5, db.SpotAvailable, db.SpotOccupied)
		assert.ErrorIs(t, err, apperrors.ErrSpotUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing spot is not found", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE parking_spots SET status = $3 WHERE id = $1 AND status = $2`)).
			WithArgs(99, db.SpotAvailable, db.SpotOccupied).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM parking_spots WHERE id = $1`)).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))

		err := repo.SetStatusIf(context.Background(), repo.DB, 99, db.SpotAvailable, db.SpotOccupied)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSpotRepository_SetStatusNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE parking_spots SET status = $2 WHERE id = $1`)).
		WithArgs(42, db.SpotAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), repo.DB, 42, db.SpotAvailable)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepository_DeleteAvailableDesc(t *testing.T) {
	t.Run("removes requested spots", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM parking_spots WHERE id IN`)).
			WithArgs(7, 2).
			WillReturnResult(sqlmock.NewResult(0, 2))

		removed, err := repo.DeleteAvailableDesc(context.Background(), repo.DB, 7, 2)
		assert.NoError(t, err)
		assert.Equal(t, 2, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("occupied spots block part of the shrink", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM parking_spots WHERE id IN`)).
			WithArgs(7, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		removed, err := repo.DeleteAvailableDesc(context.Background(), repo.DB, 7, 2)
		assert.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive limit is a noop", func(t *testing.T) {
		repo, mock := newMockDB(t)

		removed, err := repo.DeleteAvailableDesc(context.Background(), repo.DB, 7, 0)
		assert.NoError(t, err)
		assert.Zero(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSpotRepository_FindAvailableByLotOrdersBySpotNumber(t *testing.T) {
	repo, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "lot_id", "spot_number", "status"}).
		AddRow(11, 7, 1, db.SpotAvailable).
		AddRow(13, 7, 3, db.SpotAvailable)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE lot_id = $1 AND status = 'available'`)).
		WithArgs(7).
		WillReturnRows(rows)

	spots, err := repo.FindAvailableByLot(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, 1, spots[0].SpotNumber)
	assert.Equal(t, 3, spots[1].SpotNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepository_FirstAvailableEmptyLot(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY spot_number LIMIT 1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lot_id", "spot_number", "status"}))

	spot, err := repo.FirstAvailable(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, spot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

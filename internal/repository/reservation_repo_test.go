package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkease/internal/db"
	apperrors "parkease/internal/errors"
)

func newLedger(t *testing.T) (*ReservationRepository, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewReservationRepository(database), mock
}

func TestReservationRepository_Open(t *testing.T) {
	repo, mock := newLedger(t)
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reservations`)).
		WithArgs(5, 2, "KA-01-HH-1234", start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	reservation := &db.Reservation{SpotID: 5, UserID: 2, VehicleNumber: "KA-01-HH-1234", StartTime: start}
	err := repo.Open(context.Background(), repo.DB, reservation)
	require.NoError(t, err)
	assert.Equal(t, 10, reservation.ID)
	assert.Equal(t, db.ReservationActive, reservation.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_Close(t *testing.T) {
	end := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)

	t.Run("closes an active reservation", func(t *testing.T) {
		repo, mock := newLedger(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET status = 'released'`)).
			WithArgs(10, end, 20.0).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Close(context.Background(), repo.DB, 10, end, 20)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second release fails with invalid state", func(t *testing.T) {
		repo, mock := newLedger(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET status = 'released'`)).
			WithArgs(10, end, 20.0).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM reservations WHERE id = $1`)).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(db.ReservationReleased))

		err := repo.Close(context.Background(), repo.DB, 10, end, 20)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing reservation fails with not found", func(t *testing.T) {
		repo, mock := newLedger(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET status = 'released'`)).
			WithArgs(404, end, 20.0).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM reservations WHERE id = $1`)).
			WithArgs(404).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))

		err := repo.Close(context.Background(), repo.DB, 404, end, 20)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_ActiveForVehicle(t *testing.T) {
	t.Run("no active reservation returns nil", func(t *testing.T) {
		repo, mock := newLedger(t)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE vehicle_number = $1 AND status = 'active'`)).
			WithArgs("KA-01-HH-1234").
			WillReturnRows(sqlmock.NewRows([]string{"id", "spot_id", "user_id", "vehicle_number", "status", "start_time", "end_time", "cost"}))

		reservation, err := repo.ActiveForVehicle(context.Background(), "KA-01-HH-1234")
		assert.NoError(t, err)
		assert.Nil(t, reservation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("active reservation is returned", func(t *testing.T) {
		repo, mock := newLedger(t)
		start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "spot_id", "user_id", "vehicle_number", "status", "start_time", "end_time", "cost"}).
			AddRow(10, 5, 2, "KA-01-HH-1234", db.ReservationActive, start, nil, nil)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE vehicle_number = $1 AND status = 'active'`)).
			WithArgs("KA-01-HH-1234").
			WillReturnRows(rows)

		reservation, err := repo.ActiveForVehicle(context.Background(), "KA-01-HH-1234")
		require.NoError(t, err)
		require.NotNil(t, reservation)
		assert.Equal(t, 10, reservation.ID)
		assert.False(t, reservation.EndTime.Valid)
		assert.False(t, reservation.Cost.Valid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_LatestForSpot(t *testing.T) {
	repo, mock := newLedger(t)
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "spot_id", "user_id", "vehicle_number", "status", "start_time", "end_time", "cost"}).
		AddRow(12, 5, 3, "MH-12-AB-7777", db.ReservationReleased, start, end, 40.0)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE spot_id = $1`)).
		WithArgs(5).
		WillReturnRows(rows)

	reservation, err := repo.LatestForSpot(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, reservation)
	assert.Equal(t, db.ReservationReleased, reservation.Status)
	assert.True(t, reservation.Cost.Valid)
	assert.Equal(t, 40.0, reservation.Cost.Float64)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_ActiveCountForUser(t *testing.T) {
	repo, mock := newLedger(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reservations WHERE user_id = $1 AND status = 'active'`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.ActiveCountForUser(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkease/internal/db"
	"parkease/internal/entities"
	apperrors "parkease/internal/errors"
)

// ReservationRepository is the reservation ledger. Reservations are never
// deleted; released ones stay as permanent history.
type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

func (r *ReservationRepository) ActiveCountForUser(ctx context.Context, userID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reservations WHERE user_id = $1 AND status = 'active'`
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("ReservationRepository.ActiveCountForUser: %w", err)
	}
	return count, nil
}

// ActiveForVehicle returns the active reservation for a plate, or nil when the
// vehicle is not parked anywhere.
func (r *ReservationRepository) ActiveForVehicle(ctx context.Context, vehicleNumber string) (*db.Reservation, error) {
	var res db.Reservation
	query := `
		SELECT id, spot_id, user_id, vehicle_number, status, start_time, end_time, cost
		FROM reservations WHERE vehicle_number = $1 AND status = 'active'`
	err := r.DB.QueryRowContext(ctx, query, vehicleNumber).Scan(
		&res.ID, &res.SpotID, &res.UserID, &res.VehicleNumber, &res.Status,
		&res.StartTime, &res.EndTime, &res.Cost,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ReservationRepository.ActiveForVehicle: %w", err)
	}
	return &res, nil
}

// Open creates an active reservation. Precondition checks (user limit, vehicle
// uniqueness, spot availability) belong to the orchestrator, not the ledger.
func (r *ReservationRepository) Open(ctx context.Context, q Querier, res *db.Reservation) error {
	query := `
		INSERT INTO reservations (spot_id, user_id, vehicle_number, status, start_time)
		VALUES ($1, $2, $3, 'active', $4)
		RETURNING id`
	err := q.QueryRowContext(ctx, query, res.SpotID, res.UserID, res.VehicleNumber, res.StartTime).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("ReservationRepository.Open: %w", err)
	}
	res.Status = db.ReservationActive
	return nil
}

// Close releases an active reservation, recording the end time and cost. A
// reservation that is already released fails with ErrInvalidState.
func (r *ReservationRepository) Close(ctx context.Context, q Querier, id int, endTime time.Time, cost float64) error {
	query := `
		UPDATE reservations SET status = 'released', end_time = $2, cost = $3
		WHERE id = $1 AND status = 'active'`
	result, err := q.ExecContext(ctx, query, id, endTime, cost)
	if err != nil {
		return fmt.Errorf("ReservationRepository.Close: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ReservationRepository.Close: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var status string
	err = q.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("ReservationRepository.Close: %w", err)
	}
	return fmt.Errorf("reservation %d is already %s: %w", id, status, apperrors.ErrInvalidState)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int) (*db.Reservation, error) {
	var res db.Reservation
	query := `
		SELECT id, spot_id, user_id, vehicle_number, status, start_time, end_time, cost
		FROM reservations WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.SpotID, &res.UserID, &res.VehicleNumber, &res.Status,
		&res.StartTime, &res.EndTime, &res.Cost,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ReservationRepository.GetByID: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) HistoryForUser(ctx context.Context, userID int) ([]entities.HistoryEntry, error) {
	query := `
		SELECT r.id, l.id, l.name, l.address, s.spot_number,
			r.vehicle_number, r.status, r.start_time, r.end_time, r.cost
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE r.user_id = $1
		ORDER BY r.start_time DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ReservationRepository.HistoryForUser: %w", err)
	}
	defer rows.Close()

	var history []entities.HistoryEntry
	for rows.Next() {
		var entry entities.HistoryEntry
		var endTime sql.NullTime
		var cost sql.NullFloat64
		if err := rows.Scan(&entry.ReservationID, &entry.LotID, &entry.LotName, &entry.LotAddress,
			&entry.SpotNumber, &entry.VehicleNumber, &entry.Status, &entry.StartTime,
			&endTime, &cost); err != nil {
			return nil, fmt.Errorf("ReservationRepository.HistoryForUser scan: %w", err)
		}
		if endTime.Valid {
			entry.EndTime = &endTime.Time
		}
		if cost.Valid {
			entry.Cost = &cost.Float64
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

// LatestForSpot returns the most recent reservation for a spot, or nil when the
// spot has never been booked. Used to attribute the current or last occupant.
func (r *ReservationRepository) LatestForSpot(ctx context.Context, spotID int) (*db.Reservation, error) {
	var res db.Reservation
	query := `
		SELECT id, spot_id, user_id, vehicle_number, status, start_time, end_time, cost
		FROM reservations WHERE spot_id = $1
		ORDER BY start_time DESC LIMIT 1`
	err := r.DB.QueryRowContext(ctx, query, spotID).Scan(
		&res.ID, &res.SpotID, &res.UserID, &res.VehicleNumber, &res.Status,
		&res.StartTime, &res.EndTime, &res.Cost,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ReservationRepository.LatestForSpot: %w", err)
	}
	return &res, nil
}

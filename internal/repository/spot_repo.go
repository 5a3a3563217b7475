package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parkease/internal/db"
	apperrors "parkease/internal/errors"
)

// SpotRepository is the spot registry: it owns spot rows, their availability
// flags and the sequence numbering within a lot.
type SpotRepository struct {
	DB *sql.DB
}

func NewSpotRepository(database *sql.DB) *SpotRepository {
	return &SpotRepository{DB: database}
}

// CreateSpots appends count available spots to a lot, continuing the sequence
// from the current maximum spot number. Numbers are never reused, so a lot
// that shrank and grew again ends up with gaps.
func (r *SpotRepository) CreateSpots(ctx context.Context, q Querier, lotID, count int) error {
	if count <= 0 {
		return nil
	}
	query := `
		INSERT INTO parking_spots (lot_id, spot_number, status)
		SELECT $1,
			COALESCE((SELECT MAX(spot_number) FROM parking_spots WHERE lot_id = $1), 0) + gs.n,
			'available'
		FROM generate_series(1, $2) AS gs(n)`
	if _, err := q.ExecContext(ctx, query, lotID, count); err != nil {
		return fmt.Errorf("SpotRepository.CreateSpots: %w", err)
	}
	return nil
}

func (r *SpotRepository) GetByID(ctx context.Context, id int) (*db.ParkingSpot, error) {
	var spot db.ParkingSpot
	query := `SELECT id, lot_id, spot_number, status FROM parking_spots WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&spot.ID, &spot.LotID, &spot.SpotNumber, &spot.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("parking spot %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("SpotRepository.GetByID: %w", err)
	}
	return &spot, nil
}

// FindAvailableByLot returns available spots ordered by spot number so the
// lowest-numbered spot is always offered first.
func (r *SpotRepository) FindAvailableByLot(ctx context.Context, lotID int) ([]db.ParkingSpot, error) {
	query := `
		SELECT id, lot_id, spot_number, status FROM parking_spots
		WHERE lot_id = $1 AND status = 'available'
		ORDER BY spot_number`
	rows, err := r.DB.QueryContext(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("SpotRepository.FindAvailableByLot: %w", err)
	}
	defer rows.Close()

	var spots []db.ParkingSpot
	for rows.Next() {
		var spot db.ParkingSpot
		if err := rows.Scan(&spot.ID, &spot.LotID, &spot.SpotNumber, &spot.Status); err != nil {
			return nil, fmt.Errorf("SpotRepository.FindAvailableByLot scan: %w", err)
		}
		spots = append(spots, spot)
	}
	return spots, rows.Err()
}

// FirstAvailable returns the lowest-numbered available spot of a lot, or nil
// when the lot is full.
func (r *SpotRepository) FirstAvailable(ctx context.Context, lotID int) (*db.ParkingSpot, error) {
	var spot db.ParkingSpot
	query := `
		SELECT id, lot_id, spot_number, status FROM parking_spots
		WHERE lot_id = $1 AND status = 'available'
		ORDER BY spot_number LIMIT 1`
	err := r.DB.QueryRowContext(ctx, query, lotID).Scan(&spot.ID, &spot.LotID, &spot.SpotNumber, &spot.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("SpotRepository.FirstAvailable: %w", err)
	}
	return &spot, nil
}

func (r *SpotRepository) CountByLot(ctx context.Context, q Querier, lotID int) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM parking_spots WHERE lot_id = $1`, lotID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("SpotRepository.CountByLot: %w", err)
	}
	return count, nil
}

func (r *SpotRepository) CountByStatus(ctx context.Context, lotID int, status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM parking_spots WHERE lot_id = $1 AND status = $2`
	if err := r.DB.QueryRowContext(ctx, query, lotID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("SpotRepository.CountByStatus: %w", err)
	}
	return count, nil
}

// SetStatus mutates a spot's status unconditionally.
func (r *SpotRepository) SetStatus(ctx context.Context, q Querier, spotID int, status string) error {
	result, err := q.ExecContext(ctx, `UPDATE parking_spots SET status = $2 WHERE id = $1`, spotID, status)
	if err != nil {
		return fmt.Errorf("SpotRepository.SetStatus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("SpotRepository.SetStatus: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("parking spot %d: %w", spotID, apperrors.ErrNotFound)
	}
	return nil
}

// SetStatusIf flips a spot from one status to another in a single statement,
// so two bookings racing for the same spot resolve to exactly one winner.
func (r *SpotRepository) SetStatusIf(ctx context.Context, q Querier, spotID int, from, to string) error {
	query := `UPDATE parking_spots SET status = $3 WHERE id = $1 AND status = $2`
	result, err := q.ExecContext(ctx, query, spotID, from, to)
	if err != nil {
		return fmt.Errorf("SpotRepository.SetStatusIf: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("SpotRepository.SetStatusIf: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var current string
	err = q.QueryRowContext(ctx, `SELECT status FROM parking_spots WHERE id = $1`, spotID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("parking spot %d: %w", spotID, apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("SpotRepository.SetStatusIf: %w", err)
	}
	return fmt.Errorf("parking spot %d is %s: %w", spotID, current, apperrors.ErrSpotUnavailable)
}

// DeleteAvailableDesc removes up to limit available spots from a lot, highest
// spot number first, and returns how many were removed. Occupied spots are
// never touched, so the caller may get fewer deletions than requested.
func (r *SpotRepository) DeleteAvailableDesc(ctx context.Context, q Querier, lotID, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	query := `
		DELETE FROM parking_spots WHERE id IN (
			SELECT id FROM parking_spots
			WHERE lot_id = $1 AND status = 'available'
			ORDER BY spot_number DESC
			LIMIT $2)`
	result, err := q.ExecContext(ctx, query, lotID, limit)
	if err != nil {
		return 0, fmt.Errorf("SpotRepository.DeleteAvailableDesc: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("SpotRepository.DeleteAvailableDesc: %w", err)
	}
	return int(rows), nil
}

func (r *SpotRepository) DeleteByLot(ctx context.Context, q Querier, lotID int) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM parking_spots WHERE lot_id = $1`, lotID); err != nil {
		return fmt.Errorf("SpotRepository.DeleteByLot: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parkease/internal/db"
	"parkease/internal/entities"
	apperrors "parkease/internal/errors"
)

type LotRepository struct {
	DB *sql.DB
}

func NewLotRepository(database *sql.DB) *LotRepository {
	return &LotRepository{DB: database}
}

func (r *LotRepository) Create(ctx context.Context, q Querier, lot *db.ParkingLot) error {
	query := `
		INSERT INTO parking_lots (name, address, pincode, price_per_hour, max_spots, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := q.QueryRowContext(ctx, query,
		lot.Name, lot.Address, lot.Pincode, lot.PricePerHour, lot.MaxSpots, lot.CreatedBy,
	).Scan(&lot.ID, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a lot with this name or address already exists", apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("LotRepository.Create: %w", err)
	}
	return nil
}

func (r *LotRepository) GetByID(ctx context.Context, id int) (*db.ParkingLot, error) {
	var lot db.ParkingLot
	query := `
		SELECT id, name, address, pincode, price_per_hour, max_spots, created_by, created_at, updated_at
		FROM parking_lots WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lot.ID, &lot.Name, &lot.Address, &lot.Pincode, &lot.PricePerHour,
		&lot.MaxSpots, &lot.CreatedBy, &lot.CreatedAt, &lot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("parking lot %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("LotRepository.GetByID: %w", err)
	}
	return &lot, nil
}

func (r *LotRepository) Update(ctx context.Context, q Querier, lot *db.ParkingLot) error {
	query := `
		UPDATE parking_lots
		SET name = $2, address = $3, pincode = $4, price_per_hour = $5, max_spots = $6, updated_at = NOW()
		WHERE id = $1`
	result, err := q.ExecContext(ctx, query,
		lot.ID, lot.Name, lot.Address, lot.Pincode, lot.PricePerHour, lot.MaxSpots)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a lot with this name or address already exists", apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("LotRepository.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("LotRepository.Update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("parking lot %d: %w", lot.ID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *LotRepository) Delete(ctx context.Context, q Querier, id int) error {
	result, err := q.ExecContext(ctx, `DELETE FROM parking_lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("LotRepository.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("LotRepository.Delete: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("parking lot %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// SearchByPincode returns lots in the area with derived spot counts. The first
// available spot per lot is resolved separately by the service.
func (r *LotRepository) SearchByPincode(ctx context.Context, pincode string) ([]entities.LotSearchResult, error) {
	query := `
		SELECT l.id, l.name, l.address, l.price_per_hour,
			COUNT(s.id) FILTER (WHERE s.status = 'available') AS available_spots,
			COUNT(s.id) FILTER (WHERE s.status = 'occupied') AS occupied_spots
		FROM parking_lots l
		LEFT JOIN parking_spots s ON s.lot_id = l.id
		WHERE l.pincode = $1
		GROUP BY l.id, l.name, l.address, l.price_per_hour
		ORDER BY l.name`
	rows, err := r.DB.QueryContext(ctx, query, pincode)
	if err != nil {
		return nil, fmt.Errorf("LotRepository.SearchByPincode: %w", err)
	}
	defer rows.Close()

	var results []entities.LotSearchResult
	for rows.Next() {
		var res entities.LotSearchResult
		if err := rows.Scan(&res.ID, &res.Name, &res.Address, &res.PricePerHour,
			&res.AvailableSpots, &res.OccupiedSpots); err != nil {
			return nil, fmt.Errorf("LotRepository.SearchByPincode scan: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *LotRepository) ListWithCounts(ctx context.Context) ([]entities.LotResponse, error) {
	query := `
		SELECT l.id, l.name, l.address, l.pincode, l.price_per_hour, l.max_spots,
			COUNT(s.id) FILTER (WHERE s.status = 'available') AS available_spots,
			COUNT(s.id) FILTER (WHERE s.status = 'occupied') AS occupied_spots
		FROM parking_lots l
		LEFT JOIN parking_spots s ON s.lot_id = l.id
		GROUP BY l.id, l.name, l.address, l.pincode, l.price_per_hour, l.max_spots
		ORDER BY l.id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("LotRepository.ListWithCounts: %w", err)
	}
	defer rows.Close()

	var lots []entities.LotResponse
	for rows.Next() {
		var lot entities.LotResponse
		if err := rows.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Pincode, &lot.PricePerHour,
			&lot.MaxSpots, &lot.AvailableSpots, &lot.OccupiedSpots); err != nil {
			return nil, fmt.Errorf("LotRepository.ListWithCounts scan: %w", err)
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

func (r *LotRepository) Pincodes(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT pincode FROM parking_lots ORDER BY pincode`)
	if err != nil {
		return nil, fmt.Errorf("LotRepository.Pincodes: %w", err)
	}
	defer rows.Close()

	var pincodes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("LotRepository.Pincodes scan: %w", err)
		}
		pincodes = append(pincodes, code)
	}
	return pincodes, rows.Err()
}

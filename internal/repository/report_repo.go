package repository

import (
	"context"
	"database/sql"
	"fmt"

	"parkease/internal/entities"
)

// ReportRepository holds the read-only aggregate queries behind the reporting
// endpoints. It exposes raw aggregable data only; rendering belongs elsewhere.
type ReportRepository struct {
	DB *sql.DB
}

func NewReportRepository(database *sql.DB) *ReportRepository {
	return &ReportRepository{DB: database}
}

// RevenueByLot sums released reservation costs per lot.
func (r *ReportRepository) RevenueByLot(ctx context.Context, userID *int) ([]entities.LotRevenue, error) {
	query := `
		SELECT l.id, l.name, COALESCE(SUM(r.cost), 0)
		FROM reservations r
		JOIN parking_spots s ON s.id = r.spot_id
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE r.cost IS NOT NULL`
	args := []interface{}{}
	if userID != nil {
		query += ` AND r.user_id = $1`
		args = append(args, *userID)
	}
	query += `
		GROUP BY l.id, l.name
		ORDER BY l.name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.RevenueByLot: %w", err)
	}
	defer rows.Close()

	var revenues []entities.LotRevenue
	for rows.Next() {
		var rev entities.LotRevenue
		if err := rows.Scan(&rev.LotID, &rev.LotName, &rev.Revenue); err != nil {
			return nil, fmt.Errorf("ReportRepository.RevenueByLot scan: %w", err)
		}
		revenues = append(revenues, rev)
	}
	return revenues, rows.Err()
}

// ReservationsPerDay counts reservations by start date, oldest first.
func (r *ReportRepository) ReservationsPerDay(ctx context.Context, userID *int) ([]entities.DayCount, error) {
	query := `
		SELECT TO_CHAR(start_time, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM reservations`
	args := []interface{}{}
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += `
		GROUP BY day
		ORDER BY day`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.ReservationsPerDay: %w", err)
	}
	defer rows.Close()

	var counts []entities.DayCount
	for rows.Next() {
		var dc entities.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("ReportRepository.ReservationsPerDay scan: %w", err)
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

// StatusCounts returns active vs released reservation totals.
func (r *ReportRepository) StatusCounts(ctx context.Context, userID *int) (entities.StatusCounts, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'released')
		FROM reservations`
	args := []interface{}{}
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}

	var counts entities.StatusCounts
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&counts.Active, &counts.Released); err != nil {
		return entities.StatusCounts{}, fmt.Errorf("ReportRepository.StatusCounts: %w", err)
	}
	return counts, nil
}

// SpotCounts returns global spot availability across every lot.
func (r *ReportRepository) SpotCounts(ctx context.Context) (entities.SpotCounts, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE status = 'available'),
			COUNT(*) FILTER (WHERE status = 'occupied')
		FROM parking_spots`
	var counts entities.SpotCounts
	if err := r.DB.QueryRowContext(ctx, query).Scan(&counts.Available, &counts.Occupied); err != nil {
		return entities.SpotCounts{}, fmt.Errorf("ReportRepository.SpotCounts: %w", err)
	}
	return counts, nil
}

// DurationsMinutes returns completed parking durations for a user, in minutes,
// for the duration histogram.
func (r *ReportRepository) DurationsMinutes(ctx context.Context, userID int) ([]float64, error) {
	query := `
		SELECT EXTRACT(EPOCH FROM (end_time - start_time)) / 60
		FROM reservations
		WHERE user_id = $1 AND end_time IS NOT NULL
		ORDER BY start_time`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.DurationsMinutes: %w", err)
	}
	defer rows.Close()

	var durations []float64
	for rows.Next() {
		var minutes float64
		if err := rows.Scan(&minutes); err != nil {
			return nil, fmt.Errorf("ReportRepository.DurationsMinutes scan: %w", err)
		}
		durations = append(durations, minutes)
	}
	return durations, rows.Err()
}

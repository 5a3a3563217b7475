package service

import (
	"context"
	"log"

	"parkease/internal/repository"
)

// JobService holds the scheduled maintenance work. The only job is a daily
// operations summary written to the log.
type JobService struct {
	Reports *repository.ReportRepository
}

func NewJobService(reports *repository.ReportRepository) *JobService {
	return &JobService{Reports: reports}
}

// LogDailySummary logs spot occupancy, reservation totals and revenue per lot.
func (s *JobService) LogDailySummary(ctx context.Context) error {
	spots, err := s.Reports.SpotCounts(ctx)
	if err != nil {
		return err
	}
	statuses, err := s.Reports.StatusCounts(ctx, nil)
	if err != nil {
		return err
	}
	revenues, err := s.Reports.RevenueByLot(ctx, nil)
	if err != nil {
		return err
	}

	total := 0.0
	for _, rev := range revenues {
		total += rev.Revenue
	}
	log.Printf("Daily summary: %d spots available, %d occupied; %d active / %d released reservations; total revenue %.2f across %d lots",
		spots.Available, spots.Occupied, statuses.Active, statuses.Released, total, len(revenues))
	return nil
}

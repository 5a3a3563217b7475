package service

import (
	"context"

	"parkease/internal/entities"
	"parkease/internal/repository"
)

// ReportService exposes the read-only projections consumed by the reporting
// layer. Aggregates are computed per request; nothing is cached.
type ReportService struct {
	Reports *repository.ReportRepository
}

func NewReportService(reports *repository.ReportRepository) *ReportService {
	return &ReportService{Reports: reports}
}

func (s *ReportService) Summary(ctx context.Context) (*entities.Summary, error) {
	spots, err := s.Reports.SpotCounts(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := s.Reports.StatusCounts(ctx, nil)
	if err != nil {
		return nil, err
	}
	perDay, err := s.Reports.ReservationsPerDay(ctx, nil)
	if err != nil {
		return nil, err
	}
	revenue, err := s.Reports.RevenueByLot(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &entities.Summary{
		Spots:              spots,
		Reservations:       statuses,
		ReservationsPerDay: perDay,
		RevenueByLot:       revenue,
	}, nil
}

func (s *ReportService) UserSummary(ctx context.Context, userID int) (*entities.UserSummary, error) {
	statuses, err := s.Reports.StatusCounts(ctx, &userID)
	if err != nil {
		return nil, err
	}
	perDay, err := s.Reports.ReservationsPerDay(ctx, &userID)
	if err != nil {
		return nil, err
	}
	spend, err := s.Reports.RevenueByLot(ctx, &userID)
	if err != nil {
		return nil, err
	}
	durations, err := s.Reports.DurationsMinutes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entities.UserSummary{
		Reservations:       statuses,
		ReservationsPerDay: perDay,
		SpendByLot:         spend,
		DurationsMinutes:   durations,
	}, nil
}

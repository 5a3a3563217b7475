package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"parkease/internal/db"
	"parkease/internal/entities"
	apperrors "parkease/internal/errors"
	"parkease/internal/pricing"
	"parkease/internal/repository"
)

// LotService handles lot administration: creation with the initial spot set,
// capacity resizes, guarded deletion and the user-facing pincode search.
type LotService struct {
	DB     *sql.DB
	Lots   *repository.LotRepository
	Spots  *repository.SpotRepository
	Ledger *repository.ReservationRepository
}

func NewLotService(database *sql.DB, lots *repository.LotRepository, spots *repository.SpotRepository,
	ledger *repository.ReservationRepository) *LotService {
	return &LotService{DB: database, Lots: lots, Spots: spots, Ledger: ledger}
}

// Create registers a new lot owned by the acting admin and creates its spots,
// numbered 1..MaxSpots, in the same transaction.
func (s *LotService) Create(ctx context.Context, adminID int, req entities.LotRequest) (*db.ParkingLot, error) {
	if err := validateLotRequest(req); err != nil {
		return nil, err
	}

	lot := &db.ParkingLot{
		Name:         strings.TrimSpace(req.Name),
		Address:      strings.TrimSpace(req.Address),
		Pincode:      strings.TrimSpace(req.Pincode),
		PricePerHour: req.PricePerHour,
		MaxSpots:     req.MaxSpots,
		CreatedBy:    adminID,
	}
	err := repository.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := s.Lots.Create(ctx, tx, lot); err != nil {
			return err
		}
		return s.Spots.CreateSpots(ctx, tx, lot.ID, lot.MaxSpots)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// Update rewrites a lot's fields and resizes its spot set to the new capacity.
// Shrinking removes only available spots, highest number first; when occupied
// spots block a full shrink the lot keeps the extra spots and no error is
// raised. The response reports the spot count actually reached.
func (s *LotService) Update(ctx context.Context, lotID int, req entities.LotRequest) (*entities.ResizeResponse, error) {
	if err := validateLotRequest(req); err != nil {
		return nil, err
	}

	lot, err := s.Lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	lot.Name = strings.TrimSpace(req.Name)
	lot.Address = strings.TrimSpace(req.Address)
	lot.Pincode = strings.TrimSpace(req.Pincode)
	lot.PricePerHour = req.PricePerHour
	lot.MaxSpots = req.MaxSpots

	var finalCount int
	err = repository.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := s.Lots.Update(ctx, tx, lot); err != nil {
			return err
		}
		finalCount, err = s.resizeSpots(ctx, tx, lotID, req.MaxSpots)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &entities.ResizeResponse{LotID: lotID, MaxSpots: req.MaxSpots, SpotCount: finalCount}, nil
}

// Resize changes only the lot's capacity.
func (s *LotService) Resize(ctx context.Context, lotID, newCapacity int) (*entities.ResizeResponse, error) {
	if newCapacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive: %w", apperrors.ErrValidation)
	}
	lot, err := s.Lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	lot.MaxSpots = newCapacity

	var finalCount int
	err = repository.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := s.Lots.Update(ctx, tx, lot); err != nil {
			return err
		}
		finalCount, err = s.resizeSpots(ctx, tx, lotID, newCapacity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &entities.ResizeResponse{LotID: lotID, MaxSpots: newCapacity, SpotCount: finalCount}, nil
}

// resizeSpots grows or shrinks a lot's spot set toward target within tx and
// returns the resulting spot count.
func (s *LotService) resizeSpots(ctx context.Context, tx *sql.Tx, lotID, target int) (int, error) {
	current, err := s.Spots.CountByLot(ctx, tx, lotID)
	if err != nil {
		return 0, err
	}
	switch {
	case target > current:
		if err := s.Spots.CreateSpots(ctx, tx, lotID, target-current); err != nil {
			return 0, err
		}
		return target, nil
	case target < current:
		removed, err := s.Spots.DeleteAvailableDesc(ctx, tx, lotID, current-target)
		if err != nil {
			return 0, err
		}
		return current - removed, nil
	default:
		return current, nil
	}
}

// Delete removes a lot and its spots. It fails with ErrInvalidState while any
// spot is occupied. Reservation history survives the delete.
func (s *LotService) Delete(ctx context.Context, lotID int) error {
	if _, err := s.Lots.GetByID(ctx, lotID); err != nil {
		return err
	}
	occupied, err := s.Spots.CountByStatus(ctx, lotID, db.SpotOccupied)
	if err != nil {
		return err
	}
	if occupied > 0 {
		return fmt.Errorf("parking lot %d has %d occupied spots: %w", lotID, occupied, apperrors.ErrInvalidState)
	}
	return repository.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := s.Spots.DeleteByLot(ctx, tx, lotID); err != nil {
			return err
		}
		return s.Lots.Delete(ctx, tx, lotID)
	})
}

// SearchByPincode lists lots in the area with their derived counts and, for
// lots with room, the first available spot for one-click booking.
func (s *LotService) SearchByPincode(ctx context.Context, pincode string) ([]entities.LotSearchResult, error) {
	pincode = strings.TrimSpace(pincode)
	if pincode == "" {
		return nil, fmt.Errorf("pincode is required: %w", apperrors.ErrValidation)
	}
	results, err := s.Lots.SearchByPincode(ctx, pincode)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].AvailableSpots == 0 {
			continue
		}
		spot, err := s.Spots.FirstAvailable(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
		if spot != nil {
			results[i].FirstAvailableSpotID = &spot.ID
			results[i].FirstAvailableNumber = &spot.SpotNumber
		}
	}
	return results, nil
}

// AvailableSpots lists a lot's free spots in spot-number order.
func (s *LotService) AvailableSpots(ctx context.Context, lotID int) ([]entities.SpotResponse, error) {
	if _, err := s.Lots.GetByID(ctx, lotID); err != nil {
		return nil, err
	}
	spots, err := s.Spots.FindAvailableByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	responses := make([]entities.SpotResponse, 0, len(spots))
	for _, spot := range spots {
		responses = append(responses, entities.SpotResponse{
			ID:         spot.ID,
			LotID:      spot.LotID,
			SpotNumber: spot.SpotNumber,
			Status:     spot.Status,
		})
	}
	return responses, nil
}

func (s *LotService) List(ctx context.Context) ([]entities.LotResponse, error) {
	return s.Lots.ListWithCounts(ctx)
}

func (s *LotService) Pincodes(ctx context.Context) ([]string, error) {
	return s.Lots.Pincodes(ctx)
}

// SpotDetail returns a spot with its most recent reservation and the cost of
// that reservation: the recorded cost when released, or the cost accrued up to
// now while still active.
func (s *LotService) SpotDetail(ctx context.Context, spotID int, now time.Time) (*entities.SpotDetail, error) {
	spot, err := s.Spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	detail := &entities.SpotDetail{
		SpotID:     spot.ID,
		LotID:      spot.LotID,
		SpotNumber: spot.SpotNumber,
		Status:     spot.Status,
	}

	reservation, err := s.Ledger.LatestForSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return detail, nil
	}
	detail.Reservation = toReservationResponse(reservation)

	lot, err := s.Lots.GetByID(ctx, spot.LotID)
	if err != nil {
		return nil, err
	}

	end := now
	if reservation.EndTime.Valid {
		end = reservation.EndTime.Time
	}
	hours := pricing.BillableHours(reservation.StartTime, end)
	cost := pricing.Cost(reservation.StartTime, end, lot.PricePerHour)
	detail.BilledHours = &hours
	detail.EstimatedCost = &cost
	return detail, nil
}

func validateLotRequest(req entities.LotRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("name and address are required: %w", apperrors.ErrValidation)
	}
	if req.PricePerHour <= 0 {
		return fmt.Errorf("price per hour must be positive: %w", apperrors.ErrValidation)
	}
	if req.MaxSpots <= 0 {
		return fmt.Errorf("capacity must be positive: %w", apperrors.ErrValidation)
	}
	return nil
}

func toReservationResponse(res *db.Reservation) *entities.ReservationResponse {
	resp := &entities.ReservationResponse{
		ID:            res.ID,
		SpotID:        res.SpotID,
		UserID:        res.UserID,
		VehicleNumber: res.VehicleNumber,
		Status:        res.Status,
		StartTime:     res.StartTime,
	}
	if res.EndTime.Valid {
		resp.EndTime = &res.EndTime.Time
	}
	if res.Cost.Valid {
		resp.Cost = &res.Cost.Float64
	}
	return resp
}

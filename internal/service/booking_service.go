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

// BookingService coordinates the spot registry and the reservation ledger for
// book and release operations. Each operation commits its mutations in a
// single transaction, so a failure after the spot flip rolls the flip back.
type BookingService struct {
	DB       *sql.DB
	Spots    *repository.SpotRepository
	Ledger   *repository.ReservationRepository
	Lots     *repository.LotRepository
	Users    *repository.UserRepository
	Notifier *NotifyService
}

func NewBookingService(database *sql.DB, spots *repository.SpotRepository, ledger *repository.ReservationRepository,
	lots *repository.LotRepository, users *repository.UserRepository, notifier *NotifyService) *BookingService {
	return &BookingService{
		DB:       database,
		Spots:    spots,
		Ledger:   ledger,
		Lots:     lots,
		Users:    users,
		Notifier: notifier,
	}
}

// Book reserves a spot for a user's vehicle. It fails with ErrLimitExceeded
// when the user already holds the maximum number of active reservations, with
// ErrVehicleAlreadyParked when the plate is already parked somewhere, and with
// ErrSpotUnavailable when the spot is occupied or lost to a concurrent booking.
func (s *BookingService) Book(ctx context.Context, userID, spotID int, vehicleNumber string, now time.Time) (*db.Reservation, error) {
	vehicleNumber = strings.TrimSpace(vehicleNumber)
	if vehicleNumber == "" {
		return nil, fmt.Errorf("vehicle number is required: %w", apperrors.ErrValidation)
	}

	activeCount, err := s.Ledger.ActiveCountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if activeCount >= db.MaxActiveReservationsPerUser {
		return nil, fmt.Errorf("user %d already has %d active reservations: %w",
			userID, activeCount, apperrors.ErrLimitExceeded)
	}

	existing, err := s.Ledger.ActiveForVehicle(ctx, vehicleNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("vehicle %s: %w", vehicleNumber, apperrors.ErrVehicleAlreadyParked)
	}

	reservation := &db.Reservation{
		SpotID:        spotID,
		UserID:        userID,
		VehicleNumber: vehicleNumber,
		StartTime:     now,
	}
	err = repository.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		// The conditional flip re-checks availability inside the transaction,
		// so of two racing bookings only one wins.
		if err := s.Spots.SetStatusIf(ctx, tx, spotID, db.SpotAvailable, db.SpotOccupied); err != nil {
			return err
		}
		return s.Ledger.Open(ctx, tx, reservation)
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooked(ctx, reservation)
	return reservation, nil
}

// Release closes a reservation, computes the parking cost from the elapsed
// time and the lot's hourly rate, and frees the spot. Releasing an already
// released reservation fails with ErrInvalidState.
func (s *BookingService) Release(ctx context.Context, reservationID int, now time.Time) (*db.Reservation, error) {
	reservation, err := s.Ledger.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != db.ReservationActive {
		return nil, fmt.Errorf("reservation %d is already %s: %w",
			reservationID, reservation.Status, apperrors.ErrInvalidState)
	}

	spot, err := s.Spots.GetByID(ctx, reservation.SpotID)
	if err != nil {
		return nil, err
	}
	lot, err := s.Lots.GetByID(ctx, spot.LotID)
	if err != nil {
		return nil, err
	}

	cost := pricing.Cost(reservation.StartTime, now, lot.PricePerHour)

	err = repository.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		// Close is conditional on the reservation still being active, which
		// catches a release that raced this one.
		if err := s.Ledger.Close(ctx, tx, reservationID, now, cost); err != nil {
			return err
		}
		return s.Spots.SetStatus(ctx, tx, reservation.SpotID, db.SpotAvailable)
	})
	if err != nil {
		return nil, err
	}

	reservation.Status = db.ReservationReleased
	reservation.EndTime = sql.NullTime{Time: now, Valid: true}
	reservation.Cost = sql.NullFloat64{Float64: cost, Valid: true}

	s.notifyReleased(ctx, reservation)
	return reservation, nil
}

// ReleaseOwned is the user-facing release: it refuses to close a reservation
// that belongs to someone else. Operators use Release directly.
func (s *BookingService) ReleaseOwned(ctx context.Context, reservationID, userID int, now time.Time) (*db.Reservation, error) {
	reservation, err := s.Ledger.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, fmt.Errorf("reservation %d does not belong to user %d: %w",
			reservationID, userID, apperrors.ErrUnauthorized)
	}
	return s.Release(ctx, reservationID, now)
}

func (s *BookingService) HistoryForUser(ctx context.Context, userID int) ([]entities.HistoryEntry, error) {
	return s.Ledger.HistoryForUser(ctx, userID)
}

func (s *BookingService) notifyBooked(ctx context.Context, reservation *db.Reservation) {
	if s.Notifier == nil {
		return
	}
	user, spot, lot, err := s.resolveParties(ctx, reservation)
	if err != nil {
		return
	}
	go s.Notifier.BookingConfirmed(user, lot, spot, reservation)
}

func (s *BookingService) notifyReleased(ctx context.Context, reservation *db.Reservation) {
	if s.Notifier == nil {
		return
	}
	user, spot, lot, err := s.resolveParties(ctx, reservation)
	if err != nil {
		return
	}
	go s.Notifier.ReservationReleased(user, lot, spot, reservation)
}

func (s *BookingService) resolveParties(ctx context.Context, reservation *db.Reservation) (*db.User, *db.ParkingSpot, *db.ParkingLot, error) {
	user, err := s.Users.GetByID(ctx, reservation.UserID)
	if err != nil {
		return nil, nil, nil, err
	}
	spot, err := s.Spots.GetByID(ctx, reservation.SpotID)
	if err != nil {
		return nil, nil, nil, err
	}
	lot, err := s.Lots.GetByID(ctx, spot.LotID)
	if err != nil {
		return nil, nil, nil, err
	}
	return user, spot, lot, nil
}

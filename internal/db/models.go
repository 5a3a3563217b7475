package db

import (
	"database/sql"
	"time"
)

const (
	SpotAvailable = "available"
	SpotOccupied  = "occupied"

	ReservationActive   = "active"
	ReservationReleased = "released"
)

// MaxActiveReservationsPerUser caps how many spots a single user may hold at once.
const MaxActiveReservationsPerUser = 4

type User struct {
	ID           int
	Username     string
	PasswordHash string
	Name         string
	Phone        string
	Address      string
	Pincode      string
	IsSuperuser  bool
	CreatedAt    time.Time
}

type ParkingLot struct {
	ID           int
	Name         string
	Address      string
	Pincode      string
	PricePerHour float64
	MaxSpots     int
	CreatedBy    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ParkingSpot struct {
	ID         int
	LotID      int
	SpotNumber int
	Status     string
}

type Reservation struct {
	ID            int
	SpotID        int
	UserID        int
	VehicleNumber string
	Status        string
	StartTime     time.Time
	EndTime       sql.NullTime
	Cost          sql.NullFloat64
}

package entities

import "time"

type BookingRequest struct {
	SpotID        int    `json:"spot_id"`
	VehicleNumber string `json:"vehicle_number"`
}

type ReservationResponse struct {
	ID            int        `json:"id"`
	SpotID        int        `json:"spot_id"`
	UserID        int        `json:"user_id"`
	VehicleNumber string     `json:"vehicle_number"`
	Status        string     `json:"status"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	Cost          *float64   `json:"cost,omitempty"`
}

// HistoryEntry is a reservation joined with its lot and spot for display.
type HistoryEntry struct {
	ReservationID int        `json:"reservation_id"`
	LotID         int        `json:"lot_id"`
	LotName       string     `json:"lot_name"`
	LotAddress    string     `json:"lot_address"`
	SpotNumber    int        `json:"spot_number"`
	VehicleNumber string     `json:"vehicle_number"`
	Status        string     `json:"status"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	Cost          *float64   `json:"cost,omitempty"`
}

// SpotDetail is the operator view of a spot: its latest reservation and the
// cost accrued so far when that reservation is still active.
type SpotDetail struct {
	SpotID        int                  `json:"spot_id"`
	LotID         int                  `json:"lot_id"`
	SpotNumber    int                  `json:"spot_number"`
	Status        string               `json:"status"`
	Reservation   *ReservationResponse `json:"reservation,omitempty"`
	EstimatedCost *float64             `json:"estimated_cost,omitempty"`
	BilledHours   *int                 `json:"billed_hours,omitempty"`
}

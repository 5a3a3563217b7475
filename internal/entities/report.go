package entities

type LotRevenue struct {
	LotID   int     `json:"lot_id"`
	LotName string  `json:"lot_name"`
	Revenue float64 `json:"revenue"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type StatusCounts struct {
	Active   int `json:"active"`
	Released int `json:"released"`
}

type SpotCounts struct {
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
}

// Summary is the global operator report.
type Summary struct {
	Spots              SpotCounts   `json:"spots"`
	Reservations       StatusCounts `json:"reservations"`
	ReservationsPerDay []DayCount   `json:"reservations_per_day"`
	RevenueByLot       []LotRevenue `json:"revenue_by_lot"`
}

// UserSummary backs the per-user dashboard: spend per lot, booking activity
// over time and the raw session durations for the duration histogram.
type UserSummary struct {
	Reservations       StatusCounts `json:"reservations"`
	ReservationsPerDay []DayCount   `json:"reservations_per_day"`
	SpendByLot         []LotRevenue `json:"spend_by_lot"`
	DurationsMinutes   []float64    `json:"durations_minutes"`
}

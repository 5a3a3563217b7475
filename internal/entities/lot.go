package entities

type LotRequest struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Pincode      string  `json:"pincode"`
	PricePerHour float64 `json:"price_per_hour"`
	MaxSpots     int     `json:"max_spots"`
}

type LotResponse struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Pincode        string  `json:"pincode"`
	PricePerHour   float64 `json:"price_per_hour"`
	MaxSpots       int     `json:"max_spots"`
	AvailableSpots int     `json:"available_spots"`
	OccupiedSpots  int     `json:"occupied_spots"`
}

// LotSearchResult is one row of a pincode search: the lot, its derived spot
// counts and the first available spot for one-click booking.
type LotSearchResult struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	Address              string  `json:"address"`
	PricePerHour         float64 `json:"price_per_hour"`
	AvailableSpots       int     `json:"available_spots"`
	OccupiedSpots        int     `json:"occupied_spots"`
	FirstAvailableSpotID *int    `json:"first_available_spot_id,omitempty"`
	FirstAvailableNumber *int    `json:"first_available_spot_number,omitempty"`
}

type SpotResponse struct {
	ID         int    `json:"id"`
	LotID      int    `json:"lot_id"`
	SpotNumber int    `json:"spot_number"`
	Status     string `json:"status"`
}

type ResizeResponse struct {
	LotID     int `json:"lot_id"`
	MaxSpots  int `json:"max_spots"`
	SpotCount int `json:"spot_count"`
}

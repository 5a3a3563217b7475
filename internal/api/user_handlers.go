package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"parkease/internal/auth"
	"parkease/internal/db"
	"parkease/internal/entities"
	"parkease/internal/service"
)

type UserHandler struct {
	Lots     *service.LotService
	Bookings *service.BookingService
	Reports  *service.ReportService
}

func NewUserHandler(lots *service.LotService, bookings *service.BookingService, reports *service.ReportService) *UserHandler {
	return &UserHandler{Lots: lots, Bookings: bookings, Reports: reports}
}

// SearchLots handles GET /api/lots?pincode=XXXXXX.
func (h *UserHandler) SearchLots(w http.ResponseWriter, r *http.Request) {
	pincode := r.URL.Query().Get("pincode")
	results, err := h.Lots.SearchByPincode(r.Context(), pincode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *UserHandler) ListPincodes(w http.ResponseWriter, r *http.Request) {
	pincodes, err := h.Lots.Pincodes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pincodes)
}

// AvailableSpots lists a lot's free spots so the client can offer a choice
// beyond the first available one.
func (h *UserHandler) AvailableSpots(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid lot ID", http.StatusBadRequest)
		return
	}
	spots, err := h.Lots.AvailableSpots(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spots)
}

func (h *UserHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	reservation, err := h.Bookings.Book(r.Context(), userID, req.SpotID, req.VehicleNumber, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationJSON(reservation))
}

func (h *UserHandler) Release(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}
	reservation, err := h.Bookings.ReleaseOwned(r.Context(), id, userID, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationJSON(reservation))
}

func (h *UserHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	history, err := h.Bookings.HistoryForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *UserHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	summary, err := h.Reports.UserSummary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func toReservationJSON(res *db.Reservation) entities.ReservationResponse {
	resp := entities.ReservationResponse{
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

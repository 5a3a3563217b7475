package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"parkease/internal/auth"
	"parkease/internal/entities"
	"parkease/internal/service"
)

type AdminHandler struct {
	Lots     *service.LotService
	Bookings *service.BookingService
	Reports  *service.ReportService
	Auth     *service.AuthService
}

func NewAdminHandler(lots *service.LotService, bookings *service.BookingService,
	reports *service.ReportService, authSvc *service.AuthService) *AdminHandler {
	return &AdminHandler{Lots: lots, Bookings: bookings, Reports: reports, Auth: authSvc}
}

func (h *AdminHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	adminID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.LotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	lot, err := h.Lots.Create(r.Context(), adminID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lot)
}

func (h *AdminHandler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid lot ID", http.StatusBadRequest)
		return
	}
	var req entities.LotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.Lots.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) ResizeLot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid lot ID", http.StatusBadRequest)
		return
	}
	var req struct {
		MaxSpots int `json:"max_spots"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.Lots.Resize(r.Context(), id, req.MaxSpots)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) DeleteLot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid lot ID", http.StatusBadRequest)
		return
	}
	if err := h.Lots.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Parking lot deleted"})
}

func (h *AdminHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.Lots.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

// SpotDetail shows a spot with its latest reservation and accrued cost.
func (h *AdminHandler) SpotDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid spot ID", http.StatusBadRequest)
		return
	}
	detail, err := h.Lots.SpotDetail(r.Context(), id, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ForceRelease closes any reservation regardless of who owns it.
func (h *AdminHandler) ForceRelease(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}
	reservation, err := h.Bookings.Release(r.Context(), id, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationJSON(reservation))
}

func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Reports.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	responses := make([]entities.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

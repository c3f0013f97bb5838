package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"adria/internal/entities"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Slots        SlotService
	Reservations ReservationService
}

func NewAdminHandler(slots SlotService, reservations ReservationService) *AdminHandler {
	return &AdminHandler{Slots: slots, Reservations: reservations}
}

func (h *AdminHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slots, err := h.Slots.ListAll(from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

func (h *AdminHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "start_time and end_time are required", http.StatusBadRequest)
		return
	}

	slot, err := h.Slots.Create(req.StartTime, req.EndTime)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, slot)
}

func (h *AdminHandler) CreateSlotBatch(w http.ResponseWriter, r *http.Request) {
	var req entities.SlotBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Invalid batch request: "+err.Error(), http.StatusBadRequest)
		return
	}

	inserted, err := h.Slots.CreateBatch(&req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int{"created": inserted})
}

func (h *AdminHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Slots.Delete(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Slot deleted"})
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	reservations, err := h.Reservations.List(date, status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservations)
}

func (h *AdminHandler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	if err := h.Reservations.SetStatus(id, req.Status, req.Reason); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Reservation updated"})
}

func (h *AdminHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Reservations.Delete(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Reservation deleted"})
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"adria/internal/auth"
	"adria/internal/entities"
	apperrors "adria/internal/errors"
	"adria/internal/service"

	"github.com/gorilla/mux"
)

const defaultListingWindow = 60 * 24 * time.Hour

type UserReservationHandler struct {
	Service    ReservationService
	Slots      SlotService
	Challenges ChallengeIssuer
}

func NewUserReservationHandler(svc ReservationService, slots SlotService, challenges ChallengeIssuer) *UserReservationHandler {
	return &UserReservationHandler{Service: svc, Slots: slots, Challenges: challenges}
}

// ListSlots returns available slots in the requested window (defaults to
// the next 60 days). from/to accept RFC 3339 timestamps or 2006-01-02 dates.
func (h *UserReservationHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slots, err := h.Slots.ListAvailable(from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, slots)
}

func (h *UserReservationHandler) NewChallenge(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusCreated, h.Challenges.New())
}

func (h *UserReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Invalid booking request: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.Service.Create(&req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *UserReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}
	res, err := h.Service.GetByReference(code, email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *UserReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req CancelReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "A valid email is required", http.StatusBadRequest)
		return
	}
	if err := h.Service.Cancel(code, req.Email); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Reservation cancelled"})
}

// MyReservations lists the bookings of the authenticated user (email taken
// from the user token).
func (h *UserReservationHandler) MyReservations(w http.ResponseWriter, r *http.Request) {
	email := auth.EmailFromContext(r.Context())
	if email == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	reservations, err := h.Service.ListByEmail(email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservations)
}

func (h *UserReservationHandler) DownloadCalendar(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}
	res, err := h.Service.GetByReference(code, email)
	if err != nil {
		respondError(w, err)
		return
	}
	if res.Status != service.StatusConfirmed {
		respondError(w, apperrors.NewHTTPError(http.StatusConflict, "reservation is not confirmed"))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Reference+`.ics"`)
	w.Write([]byte(service.BuildICS(*res, time.Now())))
}

func (h *UserReservationHandler) CalendarLinks(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}
	res, err := h.Service.GetByReference(code, email)
	if err != nil {
		respondError(w, err)
		return
	}
	if res.Status != service.StatusConfirmed {
		respondError(w, apperrors.NewHTTPError(http.StatusConflict, "reservation is not confirmed"))
		return
	}
	respondJSON(w, http.StatusOK, service.BuildCalendarLinks(*res))
}

func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	from := time.Now()
	to := from.Add(defaultListingWindow)
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = parseTimeParam(v); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = parseTimeParam(v); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

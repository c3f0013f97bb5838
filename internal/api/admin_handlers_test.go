package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"adria/internal/entities"
	apperrors "adria/internal/errors"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func adminRouter(h *AdminHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/admin/slots", h.ListSlots).Methods("GET")
	r.HandleFunc("/admin/slots", h.CreateSlot).Methods("POST")
	r.HandleFunc("/admin/slots/batch", h.CreateSlotBatch).Methods("POST")
	r.HandleFunc("/admin/slots/{id}", h.DeleteSlot).Methods("DELETE")
	r.HandleFunc("/admin/reservations", h.ListReservations).Methods("GET")
	r.HandleFunc("/admin/reservations/{id}/status", h.UpdateReservationStatus).Methods("PUT")
	r.HandleFunc("/admin/reservations/{id}", h.DeleteReservation).Methods("DELETE")
	return r
}

func TestCreateSlotBatchHandler(t *testing.T) {
	var got *entities.SlotBatchRequest
	slots := &stubSlotService{
		createBatch: func(req *entities.SlotBatchRequest) (int, error) {
			got = req
			return 18, nil
		},
	}
	handler := NewAdminHandler(slots, &stubReservationService{})
	router := adminRouter(handler)

	body := bytes.NewBufferString(`{"start_date":"2026-04-02","end_date":"2026-04-03","first_hour":9,"last_hour":17}`)
	req := httptest.NewRequest("POST", "/admin/slots/batch", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"created":18`)
	assert.Equal(t, 9, got.FirstHour)

	req = httptest.NewRequest("POST", "/admin/slots/batch", bytes.NewBufferString(`nope`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteSlotHandler(t *testing.T) {
	testCases := []struct {
		name           string
		path           string
		deleteErr      error
		expectedStatus int
	}{
		{name: "success", path: "/admin/slots/7", expectedStatus: http.StatusOK},
		{name: "invalid id", path: "/admin/slots/abc", expectedStatus: http.StatusBadRequest},
		{name: "slot not found", path: "/admin/slots/7", deleteErr: apperrors.ErrNotFound, expectedStatus: http.StatusNotFound},
		{
			name:           "slot has active reservation",
			path:           "/admin/slots/7",
			deleteErr:      apperrors.ErrSlotHasReservation,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slots := &stubSlotService{delete: func(id int) error { return tc.deleteErr }}
			handler := NewAdminHandler(slots, &stubReservationService{})

			req := httptest.NewRequest("DELETE", tc.path, nil)
			rr := httptest.NewRecorder()
			adminRouter(handler).ServeHTTP(rr, req)
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestUpdateReservationStatusHandler(t *testing.T) {
	type call struct {
		id             int
		status, reason string
	}
	var calls []call
	svc := &stubReservationService{}
	svc.setStatus = func(id int, status, reason string) error {
		calls = append(calls, call{id: id, status: status, reason: reason})
		return nil
	}
	handler := NewAdminHandler(&stubSlotService{}, svc)
	router := adminRouter(handler)

	body := bytes.NewBufferString(`{"status":"cancelled","reason":"studio closed"}`)
	req := httptest.NewRequest("PUT", "/admin/reservations/3/status", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []call{{id: 3, status: "cancelled", reason: "studio closed"}}, calls)

	req = httptest.NewRequest("PUT", "/admin/reservations/3/status", bytes.NewBufferString(`{}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req = httptest.NewRequest("PUT", "/admin/reservations/nan/status", bytes.NewBufferString(`{"status":"confirmed"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

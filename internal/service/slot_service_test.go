package service

import (
	"testing"
	"time"

	"adria/internal/db"
	"adria/internal/entities"
	apperrors "adria/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAvailableFiltersUnavailableSlots(t *testing.T) {
	start := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	slots := &fakeSlots{listAvailable: func(from, to time.Time) ([]db.Slot, error) {
		return []db.Slot{
			{ID: 1, StartTime: start, EndTime: start.Add(time.Hour), IsAvailable: true},
			{ID: 2, StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour), IsAvailable: false},
			{ID: 3, StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour), IsAvailable: true},
		}, nil
	}}
	svc := NewSlotService(slots, time.UTC)

	out, err := svc.ListAvailable(start, start.Add(24*time.Hour))
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, []int{1, 3}, []int{out[0].ID, out[1].ID})
	for _, s := range out {
		assert.True(t, s.IsAvailable)
	}
}

func TestCreateSlotRejectsBadWindow(t *testing.T) {
	svc := NewSlotService(&fakeSlots{}, time.UTC)
	start := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(start, start)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSlotWindow)

	_, err = svc.Create(start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, apperrors.ErrInvalidSlotWindow)
}

func TestCreateSlotEnforcesOneHourWindow(t *testing.T) {
	svc := NewSlotService(&fakeSlots{}, time.UTC)
	start := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(start, start.Add(3*time.Hour))
	require.Error(t, err)
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)

	_, err = svc.Create(start, start.Add(time.Hour))
	assert.NoError(t, err)
}

func TestCreateBatchGeneratesHourlySlots(t *testing.T) {
	var captured []db.Slot
	slots := &fakeSlots{createBatch: func(s []db.Slot) (int, error) {
		captured = s
		return len(s), nil
	}}
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	svc := NewSlotService(slots, loc)

	created, err := svc.CreateBatch(&entities.SlotBatchRequest{
		StartDate: "2026-04-02",
		EndDate:   "2026-04-03",
		FirstHour: 9,
		LastHour:  17,
	})
	require.NoError(t, err)

	// 2 days x hours 09..17 inclusive.
	assert.Equal(t, 18, created)
	require.Len(t, captured, 18)

	first := captured[0]
	assert.Equal(t, time.Date(2026, 4, 2, 9, 0, 0, 0, loc), first.StartTime)
	for _, s := range captured {
		assert.Equal(t, time.Hour, s.EndTime.Sub(s.StartTime), "every generated slot is one hour")
	}
}

func TestCreateBatchValidation(t *testing.T) {
	svc := NewSlotService(&fakeSlots{}, time.UTC)

	_, err := svc.CreateBatch(&entities.SlotBatchRequest{StartDate: "02/04/2026", EndDate: "2026-04-03"})
	assert.Error(t, err)

	_, err = svc.CreateBatch(&entities.SlotBatchRequest{StartDate: "2026-04-03", EndDate: "2026-04-02"})
	assert.Error(t, err)

	_, err = svc.CreateBatch(&entities.SlotBatchRequest{
		StartDate: "2026-04-02", EndDate: "2026-04-02", FirstHour: 17, LastHour: 9,
	})
	assert.Error(t, err)
}

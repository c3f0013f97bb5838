package service

import (
	"net/http"
	"time"

	"adria/internal/db"
	"adria/internal/entities"
	apperrors "adria/internal/errors"
)

type SlotService struct {
	Repo SlotStore
	Loc  *time.Location
}

func NewSlotService(repo SlotStore, loc *time.Location) *SlotService {
	return &SlotService{Repo: repo, Loc: loc}
}

// ListAvailable returns bookable slots only. The query already filters on
// is_available; the check here keeps an unavailable slot out of the public
// listing even if the query ever changes.
func (s *SlotService) ListAvailable(from, to time.Time) ([]entities.SlotResponse, error) {
	slots, err := s.Repo.ListAvailable(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]entities.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsAvailable {
			continue
		}
		out = append(out, toSlotResponse(slot))
	}
	return out, nil
}

func (s *SlotService) ListAll(from, to time.Time) ([]entities.SlotResponse, error) {
	slots, err := s.Repo.ListAll(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]entities.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toSlotResponse(slot))
	}
	return out, nil
}

// Create adds a single slot. Slots are one-hour windows.
func (s *SlotService) Create(start, end time.Time) (*entities.SlotResponse, error) {
	if !end.After(start) {
		return nil, apperrors.ErrInvalidSlotWindow
	}
	if end.Sub(start) != time.Hour {
		return nil, apperrors.NewHTTPError(http.StatusBadRequest, "slots are one-hour windows")
	}
	slot := &db.Slot{StartTime: start, EndTime: end}
	if err := s.Repo.Create(slot); err != nil {
		return nil, err
	}
	resp := toSlotResponse(*slot)
	return &resp, nil
}

// CreateBatch generates one-hour slots for each day in the range, for each
// hour between FirstHour and LastHour inclusive. Start times that already
// exist are skipped.
func (s *SlotService) CreateBatch(req *entities.SlotBatchRequest) (int, error) {
	startDay, err := time.ParseInLocation("2006-01-02", req.StartDate, s.Loc)
	if err != nil {
		return 0, apperrors.NewHTTPError(http.StatusBadRequest, "invalid start_date, expected 2006-01-02")
	}
	endDay, err := time.ParseInLocation("2006-01-02", req.EndDate, s.Loc)
	if err != nil {
		return 0, apperrors.NewHTTPError(http.StatusBadRequest, "invalid end_date, expected 2006-01-02")
	}
	if endDay.Before(startDay) {
		return 0, apperrors.NewHTTPError(http.StatusBadRequest, "end_date is before start_date")
	}
	if req.LastHour < req.FirstHour {
		return 0, apperrors.NewHTTPError(http.StatusBadRequest, "last_hour is before first_hour")
	}

	var slots []db.Slot
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		for hour := req.FirstHour; hour <= req.LastHour; hour++ {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, s.Loc)
			slots = append(slots, db.Slot{StartTime: start, EndTime: start.Add(time.Hour)})
		}
	}
	return s.Repo.CreateBatch(slots)
}

func (s *SlotService) Delete(id int) error {
	return s.Repo.Delete(id)
}

func toSlotResponse(s db.Slot) entities.SlotResponse {
	return entities.SlotResponse{
		ID:          s.ID,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsAvailable: s.IsAvailable,
	}
}

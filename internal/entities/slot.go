package entities

import "time"

type SlotResponse struct {
	ID          int       `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
}

// SlotBatchRequest generates hourly slots between FirstHour and LastHour
// (inclusive) for every day in the date range. Dates are in the studio
// timezone, formatted 2006-01-02.
type SlotBatchRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	FirstHour int    `json:"first_hour" validate:"min=0,max=23"`
	LastHour  int    `json:"last_hour" validate:"min=0,max=23"`
}

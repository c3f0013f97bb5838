package entities

import "time"

type ReservationResponse struct {
	ID           int       `json:"id"`
	Reference    string    `json:"reference"`
	SlotID       int       `json:"slot_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	UserPhone    string    `json:"user_phone,omitempty"`
	GroupID      string    `json:"group_id,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	StatusReason string    `json:"status_reason,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

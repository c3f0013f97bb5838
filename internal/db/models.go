package db

import "time"

type Slot struct {
	ID          int
	StartTime   time.Time
	EndTime     time.Time
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Reservation struct {
	ID           int
	SlotID       int
	UserName     string
	UserEmail    string
	UserPhone    string
	GroupID      string
	Notes        string
	Reference    string
	Status       string
	StatusReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type User struct {
	ID        int
	Email     string
	Name      string
	GroupID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

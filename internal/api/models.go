package api

import (
	"time"

	"adria/internal/entities"

	"github.com/go-playground/validator/v10"
)

// Shared instance so struct metadata is cached across requests.
var validate = validator.New()

// Service interfaces consumed by the handlers. The concrete implementations
// live in internal/service; tests substitute stubs.

type ReservationService interface {
	Create(req *entities.ReservationRequest) (*entities.ReservationResponse, error)
	GetByReference(reference, email string) (*entities.ReservationResponse, error)
	ListByEmail(email string) ([]entities.ReservationResponse, error)
	Cancel(reference, email string) error
	List(date, status string) ([]entities.ReservationResponse, error)
	SetStatus(id int, status, reason string) error
	Delete(id int) error
}

type SlotService interface {
	ListAvailable(from, to time.Time) ([]entities.SlotResponse, error)
	ListAll(from, to time.Time) ([]entities.SlotResponse, error)
	Create(start, end time.Time) (*entities.SlotResponse, error)
	CreateBatch(req *entities.SlotBatchRequest) (int, error)
	Delete(id int) error
}

type AuthService interface {
	AdminLogin(password string) (string, error)
	UserLogin(name, email string) (*entities.UserLoginResponse, error)
}

type ChallengeIssuer interface {
	New() *entities.Challenge
}

// Auth
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Slots
type CreateSlotRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// Reservations
type CancelReservationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

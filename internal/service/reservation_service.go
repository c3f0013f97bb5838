package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"adria/internal/db"
	"adria/internal/entities"
	apperrors "adria/internal/errors"

	"github.com/google/uuid"
)

const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

const referenceAttempts = 5

type ReservationStore interface {
	Create(res *db.Reservation) (*db.Slot, error)
	GetByReference(reference, email string) (*entities.ReservationResponse, error)
	GetByID(id int) (*entities.ReservationResponse, error)
	ListByEmail(email string) ([]entities.ReservationResponse, error)
	List(date, status string) ([]entities.ReservationResponse, error)
	UpdateStatus(id int, status, reason string) error
	Delete(id int) error
}

type SlotStore interface {
	ListAvailable(from, to time.Time) ([]db.Slot, error)
	ListAll(from, to time.Time) ([]db.Slot, error)
	GetByID(id int) (*db.Slot, error)
	Create(s *db.Slot) error
	CreateBatch(slots []db.Slot) (int, error)
	Delete(id int) error
}

type UserStore interface {
	Upsert(email, name, groupID string) (*db.User, error)
}

type Notifier interface {
	ReservationConfirmed(res entities.ReservationResponse)
	ReservationStatusChanged(res entities.ReservationResponse)
}

type ChallengeVerifier interface {
	Verify(id, answer string) bool
}

type ReservationService struct {
	Repo       ReservationStore
	Slots      SlotStore
	Users      UserStore
	Notifier   Notifier
	Limiter    *RateLimiter
	Challenges ChallengeVerifier
	Loc        *time.Location
}

func NewReservationService(repo ReservationStore, slots SlotStore, users UserStore,
	notifier Notifier, limiter *RateLimiter, challenges ChallengeVerifier, loc *time.Location) *ReservationService {
	return &ReservationService{
		Repo:       repo,
		Slots:      slots,
		Users:      users,
		Notifier:   notifier,
		Limiter:    limiter,
		Challenges: challenges,
		Loc:        loc,
	}
}

// Create runs the booking flow: rate limit, challenge check, then insert the
// reservation with the slot flip guarded by a row lock in the repository.
// The confirmation email never blocks the booking.
func (s *ReservationService) Create(req *entities.ReservationRequest) (*entities.ReservationResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.UserEmail))

	if !s.Limiter.Allow(email) {
		return nil, apperrors.ErrRateLimited
	}
	if !s.Challenges.Verify(req.ChallengeID, req.ChallengeAnswer) {
		return nil, apperrors.ErrChallengeFailed
	}

	slot, err := s.Slots.GetByID(req.SlotID)
	if err != nil {
		return nil, err
	}
	if !slot.IsAvailable {
		return nil, apperrors.ErrSlotUnavailable
	}

	groupID := uuid.NewString()
	if user, err := s.Users.Upsert(email, req.UserName, groupID); err != nil {
		log.Printf("Error upserting user %s (booking continues): %v", email, err)
	} else {
		groupID = user.GroupID
	}

	res := &db.Reservation{
		SlotID:    req.SlotID,
		UserName:  req.UserName,
		UserEmail: email,
		UserPhone: req.UserPhone,
		GroupID:   groupID,
		Notes:     req.Notes,
		Status:    StatusConfirmed,
	}

	var booked *db.Slot
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		res.Reference, err = NewReference(slot.StartTime.In(s.Loc))
		if err != nil {
			return nil, err
		}
		booked, err = s.Repo.Create(res)
		if errors.Is(err, apperrors.ErrReferenceTaken) {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	resp := buildResponse(res, booked)
	s.Notifier.ReservationConfirmed(*resp)
	return resp, nil
}

func (s *ReservationService) GetByReference(reference, email string) (*entities.ReservationResponse, error) {
	return s.Repo.GetByReference(reference, email)
}

func (s *ReservationService) ListByEmail(email string) ([]entities.ReservationResponse, error) {
	return s.Repo.ListByEmail(email)
}

// Cancel handles user-initiated cancellation: the reference and email must
// match, the slot is released and a status email goes out.
func (s *ReservationService) Cancel(reference, email string) error {
	res, err := s.Repo.GetByReference(reference, email)
	if err != nil {
		return err
	}
	if res.Status == StatusCancelled {
		return nil
	}
	if err := s.Repo.UpdateStatus(res.ID, StatusCancelled, "cancelled by user"); err != nil {
		return err
	}
	res.Status = StatusCancelled
	res.StatusReason = "cancelled by user"
	s.Notifier.ReservationStatusChanged(*res)
	return nil
}

func (s *ReservationService) List(date, status string) ([]entities.ReservationResponse, error) {
	return s.Repo.List(date, status)
}

// SetStatus is the admin path for the reservation lifecycle.
func (s *ReservationService) SetStatus(id int, status, reason string) error {
	switch status {
	case StatusConfirmed, StatusPending, StatusCancelled:
	default:
		return apperrors.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
	}
	if err := s.Repo.UpdateStatus(id, status, reason); err != nil {
		return err
	}
	res, err := s.Repo.GetByID(id)
	if err != nil {
		log.Printf("Error loading reservation %d for status email: %v", id, err)
		return nil
	}
	s.Notifier.ReservationStatusChanged(*res)
	return nil
}

func (s *ReservationService) Delete(id int) error {
	return s.Repo.Delete(id)
}

func buildResponse(res *db.Reservation, slot *db.Slot) *entities.ReservationResponse {
	return &entities.ReservationResponse{
		ID:           res.ID,
		Reference:    res.Reference,
		SlotID:       res.SlotID,
		UserName:     res.UserName,
		UserEmail:    res.UserEmail,
		UserPhone:    res.UserPhone,
		GroupID:      res.GroupID,
		Notes:        res.Notes,
		Status:       res.Status,
		StatusReason: res.StatusReason,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		CreatedAt:    res.CreatedAt,
		UpdatedAt:    res.UpdatedAt,
	}
}

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReference builds a booking code like ADR-20260131-7QX4. The date part
// comes from the slot start in the studio timezone.
func NewReference(slotStart time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("error generating reference suffix: %w", err)
	}
	for i, b := range suffix {
		suffix[i] = referenceCharset[int(b)%len(referenceCharset)]
	}
	return fmt.Sprintf("ADR-%s-%s", slotStart.Format("20060102"), suffix), nil
}

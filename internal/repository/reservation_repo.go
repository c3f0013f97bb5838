package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"adria/internal/db"
	"adria/internal/entities"
	apperrors "adria/internal/errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

// Create inserts the reservation and flips its slot to unavailable in one
// transaction. The slot row is locked first, so two concurrent bookings for
// the same slot cannot both pass the availability check; the loser gets
// ErrSlotUnavailable. Returns the slot as it was booked.
func (r *ReservationRepository) Create(res *db.Reservation) (*db.Slot, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	var slot db.Slot
	err = tx.QueryRow(`
		SELECT id, start_time, end_time, is_available, created_at, updated_at
		FROM slots WHERE id = $1
		FOR UPDATE`, res.SlotID).
		Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.IsAvailable, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error locking slot %d: %w", res.SlotID, err)
	}
	if !slot.IsAvailable {
		return nil, apperrors.ErrSlotUnavailable
	}

	err = tx.QueryRow(`
		INSERT INTO reservations
		(slot_id, user_name, user_email, user_phone, group_id, notes, reference, status, status_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '')
		RETURNING id, created_at, updated_at`,
		res.SlotID, res.UserName, res.UserEmail, res.UserPhone, res.GroupID, res.Notes, res.Reference, res.Status,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperrors.ErrReferenceTaken
		}
		return nil, fmt.Errorf("error inserting reservation: %w", err)
	}

	if _, err = tx.Exec(`UPDATE slots SET is_available = FALSE, updated_at = NOW() WHERE id = $1`, res.SlotID); err != nil {
		return nil, fmt.Errorf("error flipping slot %d: %w", res.SlotID, err)
	}
	notifySlotChange(tx, slot.ID, false, slot.StartTime, "booked")

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing booking: %w", err)
	}
	slot.IsAvailable = false
	return &slot, nil
}

const reservationColumns = `
	r.id, r.reference, r.slot_id, r.user_name, r.user_email, r.user_phone,
	r.group_id, r.notes, r.status, r.status_reason,
	s.start_time, s.end_time, r.created_at, r.updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*entities.ReservationResponse, error) {
	var res entities.ReservationResponse
	err := row.Scan(
		&res.ID, &res.Reference, &res.SlotID, &res.UserName, &res.UserEmail, &res.UserPhone,
		&res.GroupID, &res.Notes, &res.Status, &res.StatusReason,
		&res.StartTime, &res.EndTime, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) GetByReference(reference, email string) (*entities.ReservationResponse, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN slots s ON s.id = r.slot_id
		WHERE r.reference = $1 AND lower(r.user_email) = lower($2)`
	res, err := scanReservation(r.DB.QueryRow(query, reference, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying reservation %s: %w", reference, err)
	}
	return res, nil
}

func (r *ReservationRepository) GetByID(id int) (*entities.ReservationResponse, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN slots s ON s.id = r.slot_id
		WHERE r.id = $1`
	res, err := scanReservation(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying reservation %d: %w", id, err)
	}
	return res, nil
}

func (r *ReservationRepository) ListByEmail(email string) ([]entities.ReservationResponse, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN slots s ON s.id = r.slot_id
		WHERE lower(r.user_email) = lower($1)
		ORDER BY s.start_time DESC`
	return r.queryReservations(query, email)
}

// List returns reservations filtered by slot date (2006-01-02) and/or status.
// Empty filters are ignored.
func (r *ReservationRepository) List(date, status string) ([]entities.ReservationResponse, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN slots s ON s.id = r.slot_id
		WHERE 1=1`
	var args []interface{}
	if date != "" {
		args = append(args, date)
		query += fmt.Sprintf(" AND s.start_time::date = $%d::date", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	query += " ORDER BY s.start_time"
	return r.queryReservations(query, args...)
}

func (r *ReservationRepository) queryReservations(query string, args ...interface{}) ([]entities.ReservationResponse, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []entities.ReservationResponse
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, *res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservation rows: %w", err)
	}
	return reservations, nil
}

// UpdateStatus changes a reservation's status and keeps the slot flag in
// sync: cancelling an active reservation releases the slot, reactivating a
// cancelled one re-claims it (failing with ErrSlotUnavailable if the slot
// was rebooked in the meantime).
func (r *ReservationRepository) UpdateStatus(id int, status, reason string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting status transaction: %w", err)
	}
	defer tx.Rollback()

	var prevStatus string
	var slotID int
	err = tx.QueryRow(`SELECT status, slot_id FROM reservations WHERE id = $1 FOR UPDATE`, id).
		Scan(&prevStatus, &slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error locking reservation %d: %w", id, err)
	}

	if _, err = tx.Exec(`
		UPDATE reservations SET status = $1, status_reason = $2, updated_at = NOW()
		WHERE id = $3`, status, reason, id); err != nil {
		return fmt.Errorf("error updating reservation %d: %w", id, err)
	}

	wasActive := prevStatus == "confirmed" || prevStatus == "pending"
	isActive := status == "confirmed" || status == "pending"

	switch {
	case wasActive && !isActive:
		var start time.Time
		err = tx.QueryRow(`
			UPDATE slots SET is_available = TRUE, updated_at = NOW()
			WHERE id = $1 RETURNING start_time`, slotID).Scan(&start)
		if err != nil {
			return fmt.Errorf("error releasing slot %d: %w", slotID, err)
		}
		notifySlotChange(tx, slotID, true, start, "released")
	case !wasActive && isActive:
		var slot db.Slot
		err = tx.QueryRow(`
			SELECT id, start_time, is_available FROM slots WHERE id = $1 FOR UPDATE`, slotID).
			Scan(&slot.ID, &slot.StartTime, &slot.IsAvailable)
		if err != nil {
			return fmt.Errorf("error locking slot %d: %w", slotID, err)
		}
		if !slot.IsAvailable {
			return apperrors.ErrSlotUnavailable
		}
		if _, err = tx.Exec(`UPDATE slots SET is_available = FALSE, updated_at = NOW() WHERE id = $1`, slotID); err != nil {
			return fmt.Errorf("error re-claiming slot %d: %w", slotID, err)
		}
		notifySlotChange(tx, slotID, false, slot.StartTime, "booked")
	}

	return tx.Commit()
}

// Delete removes the reservation and releases its slot if it was active.
func (r *ReservationRepository) Delete(id int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting delete transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	var slotID int
	err = tx.QueryRow(`DELETE FROM reservations WHERE id = $1 RETURNING status, slot_id`, id).
		Scan(&status, &slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error deleting reservation %d: %w", id, err)
	}

	if status == "confirmed" || status == "pending" {
		var start time.Time
		err = tx.QueryRow(`
			UPDATE slots SET is_available = TRUE, updated_at = NOW()
			WHERE id = $1 RETURNING start_time`, slotID).Scan(&start)
		if err != nil {
			return fmt.Errorf("error releasing slot %d: %w", slotID, err)
		}
		notifySlotChange(tx, slotID, true, start, "released")
	}

	return tx.Commit()
}

package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"adria/internal/db"
	apperrors "adria/internal/errors"

	"github.com/lib/pq"
)

// SlotChangesChannel is the Postgres NOTIFY channel carrying slot mutations.
// The realtime listener subscribes to it and relays payloads to websocket clients.
const SlotChangesChannel = "slot_changes"

type slotChangePayload struct {
	SlotID      int       `json:"slot_id"`
	IsAvailable bool      `json:"is_available"`
	StartTime   time.Time `json:"start_time"`
	Event       string    `json:"event"`
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

type slotRow struct {
	id    int
	start time.Time
}

// notifySlotChanges emits one notification per mutated slot, so watchers can
// update a single slot without refetching.
func notifySlotChanges(e execer, rows []slotRow, available bool, event string) {
	for _, row := range rows {
		notifySlotChange(e, row.id, available, row.start, event)
	}
}

// notifySlotChange publishes a slot mutation on the slot_changes channel.
// When called with a *sql.Tx the notification is delivered on commit.
func notifySlotChange(e execer, slotID int, available bool, start time.Time, event string) {
	payload, err := json.Marshal(slotChangePayload{
		SlotID:      slotID,
		IsAvailable: available,
		StartTime:   start,
		Event:       event,
	})
	if err != nil {
		log.Printf("Error marshaling slot change payload for slot %d: %v", slotID, err)
		return
	}
	if _, err := e.Exec(`SELECT pg_notify($1, $2)`, SlotChangesChannel, string(payload)); err != nil {
		log.Printf("Error notifying slot change for slot %d: %v", slotID, err)
	}
}

type SlotRepository struct {
	DB *sql.DB
}

func NewSlotRepository(db *sql.DB) *SlotRepository {
	return &SlotRepository{DB: db}
}

func (r *SlotRepository) ListAvailable(from, to time.Time) ([]db.Slot, error) {
	query := `
		SELECT id, start_time, end_time, is_available, created_at, updated_at
		FROM slots
		WHERE is_available = TRUE AND start_time >= $1 AND start_time < $2
		ORDER BY start_time`
	return r.querySlots(query, from, to)
}

func (r *SlotRepository) ListAll(from, to time.Time) ([]db.Slot, error) {
	query := `
		SELECT id, start_time, end_time, is_available, created_at, updated_at
		FROM slots
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time`
	return r.querySlots(query, from, to)
}

func (r *SlotRepository) querySlots(query string, args ...interface{}) ([]db.Slot, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying slots: %w", err)
	}
	defer rows.Close()

	var slots []db.Slot
	for rows.Next() {
		var s db.Slot
		if err := rows.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating slot rows: %w", err)
	}
	return slots, nil
}

func (r *SlotRepository) GetByID(id int) (*db.Slot, error) {
	var s db.Slot
	query := `
		SELECT id, start_time, end_time, is_available, created_at, updated_at
		FROM slots WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&s.ID, &s.StartTime, &s.EndTime, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying slot %d: %w", id, err)
	}
	return &s, nil
}

func (r *SlotRepository) Create(s *db.Slot) error {
	query := `
		INSERT INTO slots (start_time, end_time, is_available)
		VALUES ($1, $2, TRUE)
		RETURNING id, is_available, created_at, updated_at`
	err := r.DB.QueryRow(query, s.StartTime, s.EndTime).Scan(&s.ID, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating slot: %w", err)
	}
	notifySlotChange(r.DB, s.ID, true, s.StartTime, "created")
	return nil
}

// CreateBatch inserts the given slots, skipping start times that already
// exist, and returns how many rows were actually inserted.
func (r *SlotRepository) CreateBatch(slots []db.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	starts := make([]time.Time, 0, len(slots))
	ends := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
		ends = append(ends, s.EndTime)
	}
	query := `
		INSERT INTO slots (start_time, end_time, is_available)
		SELECT t.s, t.e, TRUE
		FROM unnest($1::timestamptz[], $2::timestamptz[]) AS t(s, e)
		ON CONFLICT (start_time) DO NOTHING
		RETURNING id, start_time`
	rows, err := r.DB.Query(query, pq.Array(starts), pq.Array(ends))
	if err != nil {
		return 0, fmt.Errorf("error batch inserting slots: %w", err)
	}
	defer rows.Close()

	var inserted []slotRow
	for rows.Next() {
		var row slotRow
		if err := rows.Scan(&row.id, &row.start); err != nil {
			return 0, fmt.Errorf("error scanning inserted slot: %w", err)
		}
		inserted = append(inserted, row)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("error after iterating inserted slots: %w", err)
	}
	rows.Close()

	notifySlotChanges(r.DB, inserted, true, "created")
	return len(inserted), nil
}

// Delete removes a slot unless a confirmed or pending reservation points at it.
func (r *SlotRepository) Delete(id int) error {
	query := `
		DELETE FROM slots
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE slot_id = $1 AND status IN ('confirmed', 'pending')
		  )
		RETURNING start_time`
	var start time.Time
	err := r.DB.QueryRow(query, id).Scan(&start)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := r.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM slots WHERE id = $1)`, id).Scan(&exists); err != nil {
				return fmt.Errorf("error checking slot %d: %w", id, err)
			}
			if exists {
				return apperrors.ErrSlotHasReservation
			}
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error deleting slot %d: %w", id, err)
	}
	notifySlotChange(r.DB, id, false, start, "deleted")
	return nil
}

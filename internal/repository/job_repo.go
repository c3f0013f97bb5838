package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetStalePendingReservationIDs returns pending reservations not touched since before.
func (r *JobRepository) GetStalePendingReservationIDs(before time.Time) ([]int, error) {
	query := `SELECT id FROM reservations WHERE status = 'pending' AND updated_at < $1`
	rows, err := r.DB.Query(query, before)
	if err != nil {
		return nil, fmt.Errorf("error querying stale pending reservations: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// CancelReservationsAndReleaseSlots marks the reservations cancelled and
// frees their slots, notifying slot watchers from within the transaction.
func (r *JobRepository) CancelReservationsAndReleaseSlots(ids []int, reason string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting sweep transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE reservations SET status = 'cancelled', status_reason = $1, updated_at = NOW()
		WHERE id = ANY($2)`, reason, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error cancelling stale reservations: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE slots SET is_available = TRUE, updated_at = NOW()
		WHERE id IN (SELECT slot_id FROM reservations WHERE id = ANY($1))`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error releasing slots: %w", err)
	}

	_, err = tx.Exec(`
		SELECT pg_notify($1, json_build_object(
			'slot_id', s.id, 'is_available', TRUE, 'start_time', s.start_time, 'event', 'released'
		)::text)
		FROM slots s
		WHERE s.id IN (SELECT slot_id FROM reservations WHERE id = ANY($2))`,
		SlotChangesChannel, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error notifying released slots: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil {
		log.Printf("Cancelled %d stale pending reservations", affected)
	}
	return nil
}

// DeletePastFreeSlots drops unbooked slots whose window already passed.
// Booked slots stay for reservation history.
func (r *JobRepository) DeletePastFreeSlots(now time.Time) (int64, error) {
	rows, err := r.DB.Query(`
		DELETE FROM slots WHERE is_available = TRUE AND start_time < $1
		RETURNING id, start_time`, now)
	if err != nil {
		return 0, fmt.Errorf("error deleting past free slots: %w", err)
	}
	defer rows.Close()

	var deleted []slotRow
	for rows.Next() {
		var row slotRow
		if err := rows.Scan(&row.id, &row.start); err != nil {
			return 0, fmt.Errorf("error scanning deleted slot: %w", err)
		}
		deleted = append(deleted, row)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("error after iterating deleted slots: %w", err)
	}
	rows.Close()

	notifySlotChanges(r.DB, deleted, false, "deleted")
	return int64(len(deleted)), nil
}

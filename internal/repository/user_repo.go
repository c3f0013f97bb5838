package repository

import (
	"database/sql"
	"fmt"

	"adria/internal/db"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Upsert refreshes the lightweight profile cache on every booking or login.
// groupID is only used for a first-time insert; an existing row keeps its own.
func (r *UserRepository) Upsert(email, name, groupID string) (*db.User, error) {
	var u db.User
	query := `
		INSERT INTO users (email, name, group_id)
		VALUES (lower($1), $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, email, name, group_id, created_at, updated_at`
	err := r.DB.QueryRow(query, email, name, groupID).
		Scan(&u.ID, &u.Email, &u.Name, &u.GroupID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error upserting user %s: %w", email, err)
	}
	return &u, nil
}

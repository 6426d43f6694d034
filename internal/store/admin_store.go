package store

import (
	"context"
	"time"
)

type AdminStore struct {
	db DB
}

func NewAdminStore(db DB) *AdminStore {
	return &AdminStore{db: db}
}

type Admin struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *AdminStore) Create(ctx context.Context, tx Execer, id, username, passwordHash string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO admins (id, username, password_hash)
		VALUES ($1, $2, $3)
	`, id, username, passwordHash)
	return err
}

func (s *AdminStore) GetByUsername(ctx context.Context, username string) (Admin, error) {
	var row Admin
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE username = $1
	`, username)
	return row, err
}

func (s *AdminStore) GetByID(ctx context.Context, adminID string) (Admin, error) {
	var row Admin
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE id = $1
	`, adminID)
	return row, err
}

func (s *AdminStore) HasAny(ctx context.Context) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM admins`)
	return count > 0, err
}

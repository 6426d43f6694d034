package store

import (
	"context"
	"time"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type User struct {
	ID                   string    `db:"id"`
	Username             string    `db:"username"`
	Phone                string    `db:"phone"`
	PasswordHash         string    `db:"password_hash"`
	BalanceKobo          int64     `db:"balance_kobo"`
	ReferralCode         string    `db:"referral_code"`
	ReferredBy           *string   `db:"referred_by"`
	ReferralCount        int       `db:"referral_count"`
	ReferralEarningsKobo int64     `db:"referral_earnings_kobo"`
	LastMilestone        int       `db:"last_milestone"`
	CreatedAt            time.Time `db:"created_at"`
}

type UserInput struct {
	ID           string
	Username     string
	Phone        string
	PasswordHash string
	ReferralCode string
	ReferredBy   *string
}

const userColumns = `id, username, phone, password_hash, balance_kobo, referral_code,
       referred_by, referral_count, referral_earnings_kobo, last_milestone, created_at`

func (s *UserStore) Create(ctx context.Context, tx Execer, input UserInput) error {
	query := `
		INSERT INTO users (id, username, phone, password_hash, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Username, input.Phone, input.PasswordHash, input.ReferralCode, input.ReferredBy)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return row, err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return row, err
}

func (s *UserStore) GetByPhone(ctx context.Context, phone string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	return row, err
}

func (s *UserStore) GetByReferralCode(ctx context.Context, code string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	return row, err
}

// GetForUpdate locks the user row for the duration of the surrounding
// transaction. Every balance read that precedes a write goes through here.
func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (User, error) {
	var row User
	err := tx.GetContext(ctx, &row, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)
	return row, err
}

func (s *UserStore) UpdateBalance(ctx context.Context, tx Execer, userID string, balanceKobo int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET balance_kobo = $1
		WHERE id = $2
	`, balanceKobo, userID)
	return err
}

func (s *UserStore) UpdateReferralProgress(ctx context.Context, tx Execer, userID string, count int, earningsKobo int64, lastMilestone int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET referral_count = $1, referral_earnings_kobo = $2, last_milestone = $3
		WHERE id = $4
	`, count, earningsKobo, lastMilestone, userID)
	return err
}

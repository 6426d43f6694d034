package store

import (
	"context"
	"time"
)

// OTPStore keeps one row per phone number: the Telegram chat the phone is
// bound to, plus the latest verification code. Saving a new code overwrites
// the previous one, so only the most recent issue is ever verifiable.
type OTPStore struct {
	db DB
}

func NewOTPStore(db DB) *OTPStore {
	return &OTPStore{db: db}
}

type PhoneOTP struct {
	Phone     string     `db:"phone"`
	ChatID    int64      `db:"chat_id"`
	Code      *string    `db:"code"`
	ExpiresAt *time.Time `db:"expires_at"`
	Used      bool       `db:"used"`
	CreatedAt time.Time  `db:"created_at"`
}

func (s *OTPStore) BindChat(ctx context.Context, phone string, chatID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phone_otps (phone, chat_id)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO UPDATE SET chat_id = EXCLUDED.chat_id
	`, phone, chatID)
	return err
}

func (s *OTPStore) ChatID(ctx context.Context, phone string) (int64, error) {
	var chatID int64
	err := s.db.GetContext(ctx, &chatID, `
		SELECT chat_id FROM phone_otps WHERE phone = $1
	`, phone)
	return chatID, err
}

// SaveCode stores a fresh code for an already-bound phone. Returns the
// affected-row count; zero means the phone has no Telegram binding yet.
func (s *OTPStore) SaveCode(ctx context.Context, phone, code string, expiresAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE phone_otps
		SET code = $2, expires_at = $3, used = FALSE, created_at = NOW()
		WHERE phone = $1
	`, phone, code, expiresAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Consume marks a matching, unexpired, unused code as used. The WHERE clause
// makes verification single-use: a second attempt with the same code affects
// zero rows.
func (s *OTPStore) Consume(ctx context.Context, phone, code string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE phone_otps
		SET used = TRUE
		WHERE phone = $1 AND code = $2 AND used = FALSE AND expires_at > NOW()
	`, phone, code)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

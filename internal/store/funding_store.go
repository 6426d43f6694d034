package store

import (
	"context"
	"time"
)

const (
	FundingPending   = "pending"
	FundingConfirmed = "confirmed"
	FundingRejected  = "rejected"
)

type FundingStore struct {
	db DB
}

func NewFundingStore(db DB) *FundingStore {
	return &FundingStore{db: db}
}

type FundingRequest struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	AmountKobo  int64      `db:"amount_kobo"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ConfirmedAt *time.Time `db:"confirmed_at"`
	ConfirmedBy *string    `db:"confirmed_by"`
}

const fundingColumns = `id, user_id, amount_kobo, status, created_at, confirmed_at, confirmed_by`

func (s *FundingStore) Create(ctx context.Context, tx Execer, id, userID string, amountKobo int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO funding_requests (id, user_id, amount_kobo, status)
		VALUES ($1, $2, $3, 'pending')
	`, id, userID, amountKobo)
	return err
}

func (s *FundingStore) GetByID(ctx context.Context, requestID string) (FundingRequest, error) {
	var row FundingRequest
	err := s.db.GetContext(ctx, &row, `
		SELECT `+fundingColumns+` FROM funding_requests WHERE id = $1
	`, requestID)
	return row, err
}

func (s *FundingStore) GetForUpdate(ctx context.Context, tx Getter, requestID string) (FundingRequest, error) {
	var row FundingRequest
	err := tx.GetContext(ctx, &row, `
		SELECT `+fundingColumns+`
		FROM funding_requests
		WHERE id = $1
		FOR UPDATE
	`, requestID)
	return row, err
}

func (s *FundingStore) ListPending(ctx context.Context) ([]FundingRequest, error) {
	var rows []FundingRequest
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+fundingColumns+`
		FROM funding_requests
		WHERE status = 'pending'
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkConfirmed flips a pending request to confirmed. The status guard in the
// WHERE clause makes the transition happen at most once; callers must check
// the affected-row count.
func (s *FundingStore) MarkConfirmed(ctx context.Context, tx Execer, requestID, adminID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE funding_requests
		SET status = 'confirmed', confirmed_at = NOW(), confirmed_by = $1
		WHERE id = $2 AND status = 'pending'
	`, adminID, requestID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *FundingStore) MarkRejected(ctx context.Context, tx Execer, requestID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE funding_requests
		SET status = 'rejected'
		WHERE id = $1 AND status = 'pending'
	`, requestID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

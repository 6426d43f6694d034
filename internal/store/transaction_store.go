package store

import (
	"context"
	"time"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Transaction is an immutable record of a single balance change. The
// before/after snapshots make the per-user chain auditable against the live
// balance.
type Transaction struct {
	ID                string    `db:"id"`
	UserID            string    `db:"user_id"`
	Type              string    `db:"type"`
	AmountKobo        int64     `db:"amount_kobo"`
	Description       string    `db:"description"`
	BalanceBeforeKobo int64     `db:"balance_before_kobo"`
	BalanceAfterKobo  int64     `db:"balance_after_kobo"`
	CreatedAt         time.Time `db:"created_at"`
}

type TransactionInput struct {
	ID                string
	UserID            string
	Type              string
	AmountKobo        int64
	Description       string
	BalanceBeforeKobo int64
	BalanceAfterKobo  int64
}

func (s *TransactionStore) Insert(ctx context.Context, tx Execer, input TransactionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount_kobo, description, balance_before_kobo, balance_after_kobo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, input.ID, input.UserID, input.Type, input.AmountKobo, input.Description,
		input.BalanceBeforeKobo, input.BalanceAfterKobo)
	return err
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, amount_kobo, description, balance_before_kobo, balance_after_kobo, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumByUser returns the signed sum of all recorded entries for a user. Used
// by the reconcile endpoint to detect drift between the live balance and the
// transaction chain.
func (s *TransactionStore) SumByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount_kobo), 0)
		FROM transactions
		WHERE user_id = $1
	`, userID)
	return sum, err
}

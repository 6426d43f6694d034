package store

import (
	"context"
	"time"
)

// SettingsStore holds the single row of bank-transfer details shown to users
// before they fund their wallet.
type SettingsStore struct {
	db DB
}

func NewSettingsStore(db DB) *SettingsStore {
	return &SettingsStore{db: db}
}

type PaymentSettings struct {
	ID            string    `db:"id"`
	BankName      string    `db:"bank_name"`
	AccountNumber string    `db:"account_number"`
	AccountName   string    `db:"account_name"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (s *SettingsStore) Get(ctx context.Context) (PaymentSettings, error) {
	var row PaymentSettings
	err := s.db.GetContext(ctx, &row, `
		SELECT id, bank_name, account_number, account_name, updated_at
		FROM payment_settings
		WHERE id = 'default'
	`)
	return row, err
}

func (s *SettingsStore) Upsert(ctx context.Context, tx Execer, bankName, accountNumber, accountName string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO payment_settings (id, bank_name, account_number, account_name)
		VALUES ('default', $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET bank_name = EXCLUDED.bank_name,
		    account_number = EXCLUDED.account_number,
		    account_name = EXCLUDED.account_name,
		    updated_at = NOW()
	`, bankName, accountNumber, accountName)
	return err
}

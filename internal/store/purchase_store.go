package store

import (
	"context"
	"time"
)

type PurchaseStore struct {
	db DB
}

func NewPurchaseStore(db DB) *PurchaseStore {
	return &PurchaseStore{db: db}
}

type DataPurchase struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	BundleID   string    `db:"bundle_id"`
	Network    string    `db:"network"`
	DataAmount string    `db:"data_amount"`
	Phone      string    `db:"phone"`
	PriceKobo  int64     `db:"price_kobo"`
	CreatedAt  time.Time `db:"created_at"`
}

type AirtimePurchase struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	Network    string    `db:"network"`
	Phone      string    `db:"phone"`
	AmountKobo int64     `db:"amount_kobo"`
	CreatedAt  time.Time `db:"created_at"`
}

func (s *PurchaseStore) InsertData(ctx context.Context, tx Execer, purchase DataPurchase) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO data_purchases (id, user_id, bundle_id, network, data_amount, phone, price_kobo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, purchase.ID, purchase.UserID, purchase.BundleID, purchase.Network,
		purchase.DataAmount, purchase.Phone, purchase.PriceKobo)
	return err
}

func (s *PurchaseStore) InsertAirtime(ctx context.Context, tx Execer, purchase AirtimePurchase) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO airtime_purchases (id, user_id, network, phone, amount_kobo)
		VALUES ($1, $2, $3, $4, $5)
	`, purchase.ID, purchase.UserID, purchase.Network, purchase.Phone, purchase.AmountKobo)
	return err
}

func (s *PurchaseStore) ListDataByUser(ctx context.Context, userID string) ([]DataPurchase, error) {
	var rows []DataPurchase
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, bundle_id, network, data_amount, phone, price_kobo, created_at
		FROM data_purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PurchaseStore) ListAirtimeByUser(ctx context.Context, userID string) ([]AirtimePurchase, error) {
	var rows []AirtimePurchase
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, network, phone, amount_kobo, created_at
		FROM airtime_purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

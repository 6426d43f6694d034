package store

import (
	"context"
	"time"
)

type CatalogStore struct {
	db DB
}

func NewCatalogStore(db DB) *CatalogStore {
	return &CatalogStore{db: db}
}

type DataBundle struct {
	ID         string    `db:"id"`
	Network    string    `db:"network"`
	DataAmount string    `db:"data_amount"`
	Validity   string    `db:"validity"`
	PriceKobo  int64     `db:"price_kobo"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
}

func (s *CatalogStore) Create(ctx context.Context, tx Execer, bundle DataBundle) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO data_bundles (id, network, data_amount, validity, price_kobo, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, bundle.ID, bundle.Network, bundle.DataAmount, bundle.Validity, bundle.PriceKobo, bundle.IsActive)
	return err
}

func (s *CatalogStore) GetByID(ctx context.Context, bundleID string) (DataBundle, error) {
	var row DataBundle
	err := s.db.GetContext(ctx, &row, `
		SELECT id, network, data_amount, validity, price_kobo, is_active, created_at
		FROM data_bundles
		WHERE id = $1
	`, bundleID)
	return row, err
}

func (s *CatalogStore) ListActive(ctx context.Context) ([]DataBundle, error) {
	var rows []DataBundle
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, network, data_amount, validity, price_kobo, is_active, created_at
		FROM data_bundles
		WHERE is_active = TRUE
		ORDER BY network, price_kobo
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CatalogStore) HasAny(ctx context.Context) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM data_bundles`)
	return count > 0, err
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"datawallet/internal/db"
	"datawallet/internal/money"
	"datawallet/internal/store"
	"datawallet/internal/websocket"
)

// Airtime bounds per top-up, in kobo.
const (
	minAirtimeKobo = 50_00
	maxAirtimeKobo = 50_000_00
)

type CatalogReader interface {
	GetByID(ctx context.Context, bundleID string) (store.DataBundle, error)
}

type PurchaseWriter interface {
	InsertData(ctx context.Context, tx store.Execer, purchase store.DataPurchase) error
	InsertAirtime(ctx context.Context, tx store.Execer, purchase store.AirtimePurchase) error
}

// PurchaseService debits the wallet and persists the fulfilled purchase in
// one transaction, so a recorded purchase always has a matching ledger debit.
type PurchaseService struct {
	txRunner  db.TxRunner
	bundles   CatalogReader
	purchases PurchaseWriter
	ledger    Ledger
	hub       BalanceHub
	log       *zap.SugaredLogger
}

func NewPurchaseService(txRunner db.TxRunner, bundles CatalogReader, purchases PurchaseWriter, ledger Ledger, hub BalanceHub, log *zap.SugaredLogger) *PurchaseService {
	return &PurchaseService{
		txRunner:  txRunner,
		bundles:   bundles,
		purchases: purchases,
		ledger:    ledger,
		hub:       hub,
		log:       log,
	}
}

func (s *PurchaseService) BuyData(ctx context.Context, userID, bundleID, phone string) (store.DataPurchase, error) {
	bundle, err := s.bundles.GetByID(ctx, bundleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.DataPurchase{}, ErrNotFound
		}
		return store.DataPurchase{}, err
	}
	if !bundle.IsActive {
		return store.DataPurchase{}, ErrNotFound
	}
	purchase := store.DataPurchase{
		ID:         uuid.NewString(),
		UserID:     userID,
		BundleID:   bundle.ID,
		Network:    bundle.Network,
		DataAmount: bundle.DataAmount,
		Phone:      phone,
		PriceKobo:  bundle.PriceKobo,
	}
	var balanceAfter int64
	description := fmt.Sprintf("%s %s Data", bundle.Network, bundle.DataAmount)
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		entry, err := s.ledger.ApplyTx(ctx, tx, userID, EntryDataPurchase, -bundle.PriceKobo, description)
		if err != nil {
			return err
		}
		balanceAfter = entry.BalanceAfterKobo
		return s.purchases.InsertData(ctx, tx, purchase)
	})
	if err != nil {
		return store.DataPurchase{}, err
	}
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		Balance: money.FormatKobo(balanceAfter),
		Type:    EntryDataPurchase,
	})
	return purchase, nil
}

func (s *PurchaseService) BuyAirtime(ctx context.Context, userID, network, phone string, amountKobo int64) (store.AirtimePurchase, error) {
	if amountKobo < minAirtimeKobo || amountKobo > maxAirtimeKobo {
		return store.AirtimePurchase{}, ErrInvalidAmount
	}
	purchase := store.AirtimePurchase{
		ID:         uuid.NewString(),
		UserID:     userID,
		Network:    network,
		Phone:      phone,
		AmountKobo: amountKobo,
	}
	var balanceAfter int64
	description := fmt.Sprintf("%s ₦%s Airtime", network, money.FormatKobo(amountKobo))
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		entry, err := s.ledger.ApplyTx(ctx, tx, userID, EntryAirtimePurchase, -amountKobo, description)
		if err != nil {
			return err
		}
		balanceAfter = entry.BalanceAfterKobo
		return s.purchases.InsertAirtime(ctx, tx, purchase)
	})
	if err != nil {
		return store.AirtimePurchase{}, err
	}
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		Balance: money.FormatKobo(balanceAfter),
		Type:    EntryAirtimePurchase,
	})
	return purchase, nil
}

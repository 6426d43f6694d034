package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"datawallet/internal/db"
	"datawallet/internal/money"
	"datawallet/internal/store"
	"datawallet/internal/websocket"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Ledger entry types. Every balance change is one of these.
const (
	EntryFunding         = "funding"
	EntryDataPurchase    = "data_purchase"
	EntryAirtimePurchase = "airtime_purchase"
	EntryReferralBonus   = "referral_bonus"
)

type LedgerUserStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.User, error)
	UpdateBalance(ctx context.Context, tx store.Execer, userID string, balanceKobo int64) error
}

type LedgerTransactionStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// LedgerService is the only code path that changes a user's balance. It locks
// the user row, re-reads the current balance, writes the new balance and
// appends the transaction record in one database transaction.
type LedgerService struct {
	txRunner db.TxRunner
	users    LedgerUserStore
	entries  LedgerTransactionStore
	hub      BalanceHub
	log      *zap.SugaredLogger
}

func NewLedgerService(txRunner db.TxRunner, users LedgerUserStore, entries LedgerTransactionStore, hub BalanceHub, log *zap.SugaredLogger) *LedgerService {
	return &LedgerService{
		txRunner: txRunner,
		users:    users,
		entries:  entries,
		hub:      hub,
		log:      log,
	}
}

// Apply records a single ledger entry in its own transaction. amountKobo is
// signed: negative debits, positive credits.
func (s *LedgerService) Apply(ctx context.Context, userID, entryType string, amountKobo int64, description string) (store.Transaction, error) {
	var entry store.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var applyErr error
		entry, applyErr = s.ApplyTx(ctx, tx, userID, entryType, amountKobo, description)
		return applyErr
	})
	if err != nil {
		return store.Transaction{}, err
	}
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		Balance: money.FormatKobo(entry.BalanceAfterKobo),
		Type:    entryType,
	})
	return entry, nil
}

// ApplyTx is Apply composed into a caller-owned transaction, so a status
// transition or purchase record can commit atomically with the balance
// change. The caller is responsible for broadcasting after commit.
func (s *LedgerService) ApplyTx(ctx context.Context, tx store.Tx, userID, entryType string, amountKobo int64, description string) (store.Transaction, error) {
	if amountKobo == 0 {
		return store.Transaction{}, ErrInvalidAmount
	}
	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Transaction{}, ErrNotFound
		}
		return store.Transaction{}, err
	}
	balanceBefore := user.BalanceKobo
	balanceAfter := balanceBefore + amountKobo
	if balanceAfter < 0 {
		return store.Transaction{}, ErrInsufficientFunds
	}
	if err := s.users.UpdateBalance(ctx, tx, userID, balanceAfter); err != nil {
		return store.Transaction{}, err
	}
	entry := store.Transaction{
		ID:                uuid.NewString(),
		UserID:            userID,
		Type:              entryType,
		AmountKobo:        amountKobo,
		Description:       description,
		BalanceBeforeKobo: balanceBefore,
		BalanceAfterKobo:  balanceAfter,
	}
	if err := s.entries.Insert(ctx, tx, store.TransactionInput{
		ID:                entry.ID,
		UserID:            entry.UserID,
		Type:              entry.Type,
		AmountKobo:        entry.AmountKobo,
		Description:       entry.Description,
		BalanceBeforeKobo: entry.BalanceBeforeKobo,
		BalanceAfterKobo:  entry.BalanceAfterKobo,
	}); err != nil {
		return store.Transaction{}, err
	}
	return entry, nil
}

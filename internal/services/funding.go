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
	ErrBelowMinimum = errors.New("amount below funding minimum")
	ErrNotPending   = errors.New("funding request is not pending")
)

type FundingStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID string, amountKobo int64) error
	GetByID(ctx context.Context, requestID string) (store.FundingRequest, error)
	GetForUpdate(ctx context.Context, tx store.Getter, requestID string) (store.FundingRequest, error)
	ListPending(ctx context.Context) ([]store.FundingRequest, error)
	MarkConfirmed(ctx context.Context, tx store.Execer, requestID, adminID string) (int64, error)
	MarkRejected(ctx context.Context, tx store.Execer, requestID string) (int64, error)
}

type Ledger interface {
	ApplyTx(ctx context.Context, tx store.Tx, userID, entryType string, amountKobo int64, description string) (store.Transaction, error)
}

// FundingService manages the pending -> confirmed/rejected lifecycle of
// bank-transfer claims. Only a confirm moves money, and it does so through
// the ledger inside the same transaction as the status flip.
type FundingService struct {
	txRunner      db.TxRunner
	requests      FundingStore
	ledger        Ledger
	hub           BalanceHub
	minAmountKobo int64
	log           *zap.SugaredLogger
}

func NewFundingService(txRunner db.TxRunner, requests FundingStore, ledger Ledger, hub BalanceHub, minAmountKobo int64, log *zap.SugaredLogger) *FundingService {
	return &FundingService{
		txRunner:      txRunner,
		requests:      requests,
		ledger:        ledger,
		hub:           hub,
		minAmountKobo: minAmountKobo,
		log:           log,
	}
}

func (s *FundingService) Create(ctx context.Context, userID string, amountKobo int64) (store.FundingRequest, error) {
	if amountKobo < s.minAmountKobo {
		return store.FundingRequest{}, ErrBelowMinimum
	}
	requestID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.requests.Create(ctx, tx, requestID, userID, amountKobo)
	})
	if err != nil {
		return store.FundingRequest{}, err
	}
	return s.requests.GetByID(ctx, requestID)
}

// Confirm flips a pending request to confirmed and credits the owner in one
// transaction. If the credit fails the status flip rolls back with it, so a
// request is never confirmed without the balance having moved. The row lock
// plus the status guard make a second confirm fail with ErrNotPending rather
// than double-credit.
func (s *FundingService) Confirm(ctx context.Context, requestID, adminID string) error {
	var ownerID string
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		request, err := s.requests.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != store.FundingPending {
			return ErrNotPending
		}
		rows, err := s.requests.MarkConfirmed(ctx, tx, requestID, adminID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotPending
		}
		entry, err := s.ledger.ApplyTx(ctx, tx, request.UserID, EntryFunding, request.AmountKobo, "Account top-up")
		if err != nil {
			return err
		}
		ownerID = request.UserID
		balanceAfter = entry.BalanceAfterKobo
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Infow("funding request confirmed", "request_id", requestID, "admin_id", adminID)
	s.hub.BroadcastBalance(ownerID, websocket.BalanceUpdate{
		Balance: money.FormatKobo(balanceAfter),
		Type:    EntryFunding,
	})
	return nil
}

func (s *FundingService) Reject(ctx context.Context, requestID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		request, err := s.requests.GetForUpdate(ctx, tx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != store.FundingPending {
			return ErrNotPending
		}
		rows, err := s.requests.MarkRejected(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotPending
		}
		return nil
	})
}

func (s *FundingService) ListPending(ctx context.Context) ([]store.FundingRequest, error) {
	return s.requests.ListPending(ctx)
}

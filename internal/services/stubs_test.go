package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"datawallet/internal/store"
	"datawallet/internal/websocket"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubUserStore struct {
	getByReferralCodeFn      func(ctx context.Context, code string) (store.User, error)
	getForUpdateFn           func(ctx context.Context, tx store.Getter, userID string) (store.User, error)
	updateBalanceFn          func(ctx context.Context, tx store.Execer, userID string, balanceKobo int64) error
	updateReferralProgressFn func(ctx context.Context, tx store.Execer, userID string, count int, earningsKobo int64, lastMilestone int) error
}

func (s stubUserStore) GetByReferralCode(ctx context.Context, code string) (store.User, error) {
	return s.getByReferralCodeFn(ctx, code)
}

func (s stubUserStore) GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.User, error) {
	return s.getForUpdateFn(ctx, tx, userID)
}

func (s stubUserStore) UpdateBalance(ctx context.Context, tx store.Execer, userID string, balanceKobo int64) error {
	if s.updateBalanceFn == nil {
		return nil
	}
	return s.updateBalanceFn(ctx, tx, userID, balanceKobo)
}

func (s stubUserStore) UpdateReferralProgress(ctx context.Context, tx store.Execer, userID string, count int, earningsKobo int64, lastMilestone int) error {
	if s.updateReferralProgressFn == nil {
		return nil
	}
	return s.updateReferralProgressFn(ctx, tx, userID, count, earningsKobo, lastMilestone)
}

type stubTransactionStore struct {
	insertFn func(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

func (s stubTransactionStore) Insert(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

type stubFundingStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, userID string, amountKobo int64) error
	getByIDFn       func(ctx context.Context, requestID string) (store.FundingRequest, error)
	getForUpdateFn  func(ctx context.Context, tx store.Getter, requestID string) (store.FundingRequest, error)
	listPendingFn   func(ctx context.Context) ([]store.FundingRequest, error)
	markConfirmedFn func(ctx context.Context, tx store.Execer, requestID, adminID string) (int64, error)
	markRejectedFn  func(ctx context.Context, tx store.Execer, requestID string) (int64, error)
}

func (s stubFundingStore) Create(ctx context.Context, tx store.Execer, id, userID string, amountKobo int64) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID, amountKobo)
}

func (s stubFundingStore) GetByID(ctx context.Context, requestID string) (store.FundingRequest, error) {
	if s.getByIDFn == nil {
		return store.FundingRequest{ID: requestID, Status: store.FundingPending}, nil
	}
	return s.getByIDFn(ctx, requestID)
}

func (s stubFundingStore) GetForUpdate(ctx context.Context, tx store.Getter, requestID string) (store.FundingRequest, error) {
	return s.getForUpdateFn(ctx, tx, requestID)
}

func (s stubFundingStore) ListPending(ctx context.Context) ([]store.FundingRequest, error) {
	return s.listPendingFn(ctx)
}

func (s stubFundingStore) MarkConfirmed(ctx context.Context, tx store.Execer, requestID, adminID string) (int64, error) {
	if s.markConfirmedFn == nil {
		return 1, nil
	}
	return s.markConfirmedFn(ctx, tx, requestID, adminID)
}

func (s stubFundingStore) MarkRejected(ctx context.Context, tx store.Execer, requestID string) (int64, error) {
	if s.markRejectedFn == nil {
		return 1, nil
	}
	return s.markRejectedFn(ctx, tx, requestID)
}

type stubLedger struct {
	applyTxFn func(ctx context.Context, tx store.Tx, userID, entryType string, amountKobo int64, description string) (store.Transaction, error)
}

func (s stubLedger) ApplyTx(ctx context.Context, tx store.Tx, userID, entryType string, amountKobo int64, description string) (store.Transaction, error) {
	if s.applyTxFn == nil {
		return store.Transaction{ID: "entry-1", UserID: userID, Type: entryType, AmountKobo: amountKobo, CreatedAt: time.Now()}, nil
	}
	return s.applyTxFn(ctx, tx, userID, entryType, amountKobo, description)
}

type stubCatalog struct {
	getByIDFn func(ctx context.Context, bundleID string) (store.DataBundle, error)
}

func (s stubCatalog) GetByID(ctx context.Context, bundleID string) (store.DataBundle, error) {
	return s.getByIDFn(ctx, bundleID)
}

type stubPurchaseWriter struct {
	insertDataFn    func(ctx context.Context, tx store.Execer, purchase store.DataPurchase) error
	insertAirtimeFn func(ctx context.Context, tx store.Execer, purchase store.AirtimePurchase) error
}

func (s stubPurchaseWriter) InsertData(ctx context.Context, tx store.Execer, purchase store.DataPurchase) error {
	if s.insertDataFn == nil {
		return nil
	}
	return s.insertDataFn(ctx, tx, purchase)
}

func (s stubPurchaseWriter) InsertAirtime(ctx context.Context, tx store.Execer, purchase store.AirtimePurchase) error {
	if s.insertAirtimeFn == nil {
		return nil
	}
	return s.insertAirtimeFn(ctx, tx, purchase)
}

type stubHub struct {
	calls []websocket.BalanceUpdate
}

func (s *stubHub) BroadcastBalance(_ string, update websocket.BalanceUpdate) {
	s.calls = append(s.calls, update)
}

package handlers

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"datawallet/internal/config"
	"datawallet/internal/store"
	"datawallet/internal/websocket"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubSelecter struct {
	selectFn func(ctx context.Context, dest any, query string, args ...any) error
}

func (s stubSelecter) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.selectFn == nil {
		return nil
	}
	return s.selectFn(ctx, dest, query, args...)
}

type stubUserStore struct {
	createFn            func(ctx context.Context, tx store.Execer, input store.UserInput) error
	getByIDFn           func(ctx context.Context, userID string) (store.User, error)
	getByUsernameFn     func(ctx context.Context, username string) (store.User, error)
	getByPhoneFn        func(ctx context.Context, phone string) (store.User, error)
	getByReferralCodeFn func(ctx context.Context, code string) (store.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, input store.UserInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.User, error) {
	if s.getByIDFn == nil {
		return store.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (store.User, error) {
	if s.getByUsernameFn == nil {
		return store.User{}, sql.ErrNoRows
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetByPhone(ctx context.Context, phone string) (store.User, error) {
	if s.getByPhoneFn == nil {
		return store.User{}, sql.ErrNoRows
	}
	return s.getByPhoneFn(ctx, phone)
}

func (s stubUserStore) GetByReferralCode(ctx context.Context, code string) (store.User, error) {
	if s.getByReferralCodeFn == nil {
		return store.User{}, sql.ErrNoRows
	}
	return s.getByReferralCodeFn(ctx, code)
}

type stubAdminStore struct {
	getByUsernameFn func(ctx context.Context, username string) (store.Admin, error)
	getByIDFn       func(ctx context.Context, adminID string) (store.Admin, error)
}

func (s stubAdminStore) GetByUsername(ctx context.Context, username string) (store.Admin, error) {
	if s.getByUsernameFn == nil {
		return store.Admin{}, sql.ErrNoRows
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubAdminStore) GetByID(ctx context.Context, adminID string) (store.Admin, error) {
	if s.getByIDFn == nil {
		return store.Admin{ID: adminID}, nil
	}
	return s.getByIDFn(ctx, adminID)
}

type stubTransactionStore struct {
	listByUserFn func(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
}

func (s stubTransactionStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, limit, offset)
}

type stubCatalogStore struct {
	listActiveFn func(ctx context.Context) ([]store.DataBundle, error)
	createFn     func(ctx context.Context, tx store.Execer, bundle store.DataBundle) error
}

func (s stubCatalogStore) ListActive(ctx context.Context) ([]store.DataBundle, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx)
}

func (s stubCatalogStore) Create(ctx context.Context, tx store.Execer, bundle store.DataBundle) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, bundle)
}

type stubPurchaseStore struct {
	listDataFn    func(ctx context.Context, userID string) ([]store.DataPurchase, error)
	listAirtimeFn func(ctx context.Context, userID string) ([]store.AirtimePurchase, error)
}

func (s stubPurchaseStore) ListDataByUser(ctx context.Context, userID string) ([]store.DataPurchase, error) {
	if s.listDataFn == nil {
		return nil, nil
	}
	return s.listDataFn(ctx, userID)
}

func (s stubPurchaseStore) ListAirtimeByUser(ctx context.Context, userID string) ([]store.AirtimePurchase, error) {
	if s.listAirtimeFn == nil {
		return nil, nil
	}
	return s.listAirtimeFn(ctx, userID)
}

type stubSettingsStore struct {
	getFn    func(ctx context.Context) (store.PaymentSettings, error)
	upsertFn func(ctx context.Context, tx store.Execer, bankName, accountNumber, accountName string) error
}

func (s stubSettingsStore) Get(ctx context.Context) (store.PaymentSettings, error) {
	if s.getFn == nil {
		return store.PaymentSettings{}, sql.ErrNoRows
	}
	return s.getFn(ctx)
}

func (s stubSettingsStore) Upsert(ctx context.Context, tx store.Execer, bankName, accountNumber, accountName string) error {
	if s.upsertFn == nil {
		return nil
	}
	return s.upsertFn(ctx, tx, bankName, accountNumber, accountName)
}

type stubFundingService struct {
	createFn      func(ctx context.Context, userID string, amountKobo int64) (store.FundingRequest, error)
	confirmFn     func(ctx context.Context, requestID, adminID string) error
	rejectFn      func(ctx context.Context, requestID string) error
	listPendingFn func(ctx context.Context) ([]store.FundingRequest, error)
}

func (s stubFundingService) Create(ctx context.Context, userID string, amountKobo int64) (store.FundingRequest, error) {
	return s.createFn(ctx, userID, amountKobo)
}

func (s stubFundingService) Confirm(ctx context.Context, requestID, adminID string) error {
	return s.confirmFn(ctx, requestID, adminID)
}

func (s stubFundingService) Reject(ctx context.Context, requestID string) error {
	return s.rejectFn(ctx, requestID)
}

func (s stubFundingService) ListPending(ctx context.Context) ([]store.FundingRequest, error) {
	return s.listPendingFn(ctx)
}

type stubPurchaseService struct {
	buyDataFn    func(ctx context.Context, userID, bundleID, phone string) (store.DataPurchase, error)
	buyAirtimeFn func(ctx context.Context, userID, network, phone string, amountKobo int64) (store.AirtimePurchase, error)
}

func (s stubPurchaseService) BuyData(ctx context.Context, userID, bundleID, phone string) (store.DataPurchase, error) {
	return s.buyDataFn(ctx, userID, bundleID, phone)
}

func (s stubPurchaseService) BuyAirtime(ctx context.Context, userID, network, phone string, amountKobo int64) (store.AirtimePurchase, error) {
	return s.buyAirtimeFn(ctx, userID, network, phone, amountKobo)
}

type stubReferralService struct {
	recordSignupFn func(ctx context.Context, referralCode string) error
}

func (s stubReferralService) RecordSignup(ctx context.Context, referralCode string) error {
	if s.recordSignupFn == nil {
		return nil
	}
	return s.recordSignupFn(ctx, referralCode)
}

type stubOTPService struct {
	issueFn  func(ctx context.Context, phone string) error
	verifyFn func(ctx context.Context, phone, code string) (bool, error)
}

func (s stubOTPService) Issue(ctx context.Context, phone string) error {
	if s.issueFn == nil {
		return nil
	}
	return s.issueFn(ctx, phone)
}

func (s stubOTPService) Verify(ctx context.Context, phone, code string) (bool, error) {
	if s.verifyFn == nil {
		return true, nil
	}
	return s.verifyFn(ctx, phone, code)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:          "test",
		JWTSecret:       "secret",
		TokenTTLMinutes: 60,
		AllowedOrigins:  "*",
	}
}

func newTestHandler(users UserStore, admins AdminStore, transactions TransactionStore, bundles CatalogStore, purchases PurchaseStore, settings SettingsStore, funding FundingService, purchase PurchaseService, referral ReferralService, otpSvc OTPService) *Handler {
	return New(testConfig(), zap.NewNop().Sugar(), fakeTxRunner{}, stubSelecter{},
		users, admins, transactions, bundles, purchases, settings,
		funding, purchase, referral, otpSvc, websocket.NewHub())
}

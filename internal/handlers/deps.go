package handlers

import (
	"context"

	"datawallet/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UserInput) error
	GetByID(ctx context.Context, userID string) (store.User, error)
	GetByUsername(ctx context.Context, username string) (store.User, error)
	GetByPhone(ctx context.Context, phone string) (store.User, error)
	GetByReferralCode(ctx context.Context, code string) (store.User, error)
}

type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (store.Admin, error)
	GetByID(ctx context.Context, adminID string) (store.Admin, error)
}

type TransactionStore interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
}

type CatalogStore interface {
	ListActive(ctx context.Context) ([]store.DataBundle, error)
	Create(ctx context.Context, tx store.Execer, bundle store.DataBundle) error
}

type PurchaseStore interface {
	ListDataByUser(ctx context.Context, userID string) ([]store.DataPurchase, error)
	ListAirtimeByUser(ctx context.Context, userID string) ([]store.AirtimePurchase, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (store.PaymentSettings, error)
	Upsert(ctx context.Context, tx store.Execer, bankName, accountNumber, accountName string) error
}

type FundingService interface {
	Create(ctx context.Context, userID string, amountKobo int64) (store.FundingRequest, error)
	Confirm(ctx context.Context, requestID, adminID string) error
	Reject(ctx context.Context, requestID string) error
	ListPending(ctx context.Context) ([]store.FundingRequest, error)
}

type PurchaseService interface {
	BuyData(ctx context.Context, userID, bundleID, phone string) (store.DataPurchase, error)
	BuyAirtime(ctx context.Context, userID, network, phone string, amountKobo int64) (store.AirtimePurchase, error)
}

type ReferralService interface {
	RecordSignup(ctx context.Context, referralCode string) error
}

type OTPService interface {
	Issue(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) (bool, error)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"datawallet/internal/services"
	"datawallet/internal/store"
)

func TestBuyDataInsufficientFunds(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{
			buyDataFn: func(context.Context, string, string, string) (store.DataPurchase, error) {
				return store.DataPurchase{}, services.ErrInsufficientFunds
			},
		}, stubReferralService{}, stubOTPService{})

	body := []byte(`{"bundle_id":"b-1","phone":"+2348012345678"}`)
	req := authedRequest(t, http.MethodPost, "/purchases/data", body, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.BuyData, rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var payload map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&payload)
	if payload["error"] != "insufficient_funds" {
		t.Fatalf("unexpected error: %q", payload["error"])
	}
}

func TestBuyDataUnknownBundle(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{
			buyDataFn: func(context.Context, string, string, string) (store.DataPurchase, error) {
				return store.DataPurchase{}, services.ErrNotFound
			},
		}, stubReferralService{}, stubOTPService{})

	body := []byte(`{"bundle_id":"missing","phone":"+2348012345678"}`)
	req := authedRequest(t, http.MethodPost, "/purchases/data", body, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.BuyData, rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestBuyDataSuccess(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{
			buyDataFn: func(_ context.Context, userID, bundleID, phone string) (store.DataPurchase, error) {
				return store.DataPurchase{
					ID: "p-1", UserID: userID, BundleID: bundleID,
					Network: "MTN", DataAmount: "1GB", Phone: phone, PriceKobo: 250_00,
				}, nil
			},
		}, stubReferralService{}, stubOTPService{})

	body := []byte(`{"bundle_id":"b-1","phone":"+2348012345678"}`)
	req := authedRequest(t, http.MethodPost, "/purchases/data", body, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.BuyData, rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&payload)
	if payload["price"] != "250.00" || payload["network"] != "MTN" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestBuyAirtimeRejectsBadNetwork(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{
			buyAirtimeFn: func(context.Context, string, string, string, int64) (store.AirtimePurchase, error) {
				t.Fatalf("service must not be called")
				return store.AirtimePurchase{}, nil
			},
		}, stubReferralService{}, stubOTPService{})

	body := []byte(`{"network":"Vodafone","phone":"+2348012345678","amount":"100"}`)
	req := authedRequest(t, http.MethodPost, "/purchases/airtime", body, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.BuyAirtime, rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestBuyAirtimeSuccess(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{
			buyAirtimeFn: func(_ context.Context, userID, network, phone string, amountKobo int64) (store.AirtimePurchase, error) {
				if amountKobo != 100_00 {
					t.Fatalf("unexpected amount: %d", amountKobo)
				}
				return store.AirtimePurchase{ID: "p-1", UserID: userID, Network: network, Phone: phone, AmountKobo: amountKobo}, nil
			},
		}, stubReferralService{}, stubOTPService{})

	body := []byte(`{"network":"Airtel","phone":"+2348012345678","amount":"100"}`)
	req := authedRequest(t, http.MethodPost, "/purchases/airtime", body, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.BuyAirtime, rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestListBundles(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{
			listActiveFn: func(context.Context) ([]store.DataBundle, error) {
				return []store.DataBundle{
					{ID: "b-1", Network: "MTN", DataAmount: "1GB", Validity: "30 days", PriceKobo: 250_00, IsActive: true},
				}, nil
			},
		}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	req := httptest.NewRequest(http.MethodGet, "/bundles", nil)
	rr := httptest.NewRecorder()
	handler.ListBundles(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0]["price"] != "250.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"datawallet/internal/store"
)

func TestListTransactionsDefaultsPaging(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{},
		stubTransactionStore{
			listByUserFn: func(_ context.Context, userID string, limit, offset int) ([]store.Transaction, error) {
				if userID != "user-1" || limit != 50 || offset != 0 {
					t.Fatalf("unexpected paging: %s %d %d", userID, limit, offset)
				}
				return []store.Transaction{
					{ID: "entry-1", UserID: userID, Type: "funding", AmountKobo: 5_000_00, BalanceBeforeKobo: 0, BalanceAfterKobo: 5_000_00},
				}, nil
			},
		}, stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	req := authedRequest(t, http.MethodGet, "/transactions", nil, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.ListTransactions, rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0]["amount"] != "5000.00" || payload[0]["balance_after"] != "5000.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestListTransactionsCustomPage(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{},
		stubTransactionStore{
			listByUserFn: func(_ context.Context, _ string, limit, offset int) ([]store.Transaction, error) {
				if limit != 10 || offset != 20 {
					t.Fatalf("unexpected paging: %d %d", limit, offset)
				}
				return nil, nil
			},
		}, stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	req := authedRequest(t, http.MethodGet, "/transactions?page=3&limit=10", nil, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.ListTransactions, rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"datawallet/internal/auth"
	"datawallet/internal/middleware"
	"datawallet/internal/services"
	"datawallet/internal/store"
)

func TestCreateFundingRequest(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{
			createFn: func(_ context.Context, userID string, amountKobo int64) (store.FundingRequest, error) {
				if userID != "user-1" || amountKobo != 5_000_00 {
					t.Fatalf("unexpected create: %s %d", userID, amountKobo)
				}
				return store.FundingRequest{ID: "req-1", UserID: userID, AmountKobo: amountKobo, Status: store.FundingPending}, nil
			},
		}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	body := []byte(`{"amount":"5000"}`)
	req := authedRequest(t, http.MethodPost, "/funding/requests", body, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.CreateFundingRequest, rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&payload)
	if payload["status"] != "pending" || payload["amount"] != "5000.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestCreateFundingRequestBelowMinimum(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{
			createFn: func(context.Context, string, int64) (store.FundingRequest, error) {
				return store.FundingRequest{}, services.ErrBelowMinimum
			},
		}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	body := []byte(`{"amount":"500"}`)
	req := authedRequest(t, http.MethodPost, "/funding/requests", body, "user-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.CreateFundingRequest, rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var payload map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&payload)
	if payload["error"] != "amount_below_minimum" {
		t.Fatalf("unexpected error: %q", payload["error"])
	}
}

func TestCreateFundingRequestBadAmount(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{
			createFn: func(context.Context, string, int64) (store.FundingRequest, error) {
				t.Fatalf("service must not be called")
				return store.FundingRequest{}, nil
			},
		}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	for _, amount := range []string{"abc", "-100", "0", "10.005"} {
		body := []byte(`{"amount":"` + amount + `"}`)
		req := authedRequest(t, http.MethodPost, "/funding/requests", body, "user-1")
		rr := httptest.NewRecorder()
		serveAuthed(handler.CreateFundingRequest, rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("amount %q: expected 400, got %d", amount, rr.Code)
		}
	}
}

func TestConfirmFundingConflict(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{
			confirmFn: func(context.Context, string, string) error {
				return services.ErrNotPending
			},
		}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	req := authedRequest(t, http.MethodPost, "/admin/funding/req-1/confirm", nil, "admin-1")
	req = withURLParam(req, "id", "req-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.ConfirmFunding, rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestConfirmFundingNotFound(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{
			confirmFn: func(context.Context, string, string) error {
				return services.ErrNotFound
			},
		}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	req := authedRequest(t, http.MethodPost, "/admin/funding/missing/confirm", nil, "admin-1")
	req = withURLParam(req, "id", "missing")
	rr := httptest.NewRecorder()
	serveAuthed(handler.ConfirmFunding, rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestConfirmFundingSuccess(t *testing.T) {
	var confirmedBy string
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{
			confirmFn: func(_ context.Context, requestID, adminID string) error {
				if requestID != "req-1" {
					t.Fatalf("unexpected request id: %s", requestID)
				}
				confirmedBy = adminID
				return nil
			},
		}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	req := authedRequest(t, http.MethodPost, "/admin/funding/req-1/confirm", nil, "admin-1")
	req = withURLParam(req, "id", "req-1")
	rr := httptest.NewRecorder()
	serveAuthed(handler.ConfirmFunding, rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if confirmedBy != "admin-1" {
		t.Fatalf("expected confirming admin to be recorded, got %q", confirmedBy)
	}
}

func TestGetPaymentSettingsEmpty(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAdminStore{}, stubTransactionStore{},
		stubCatalogStore{}, stubPurchaseStore{}, stubSettingsStore{},
		stubFundingService{}, stubPurchaseService{}, stubReferralService{}, stubOTPService{})

	req := httptest.NewRequest(http.MethodGet, "/funding/settings", nil)
	rr := httptest.NewRecorder()
	handler.GetPaymentSettings(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for unset settings, got %d", rr.Code)
	}
}

func authedRequest(t *testing.T, method, target string, body []byte, userID string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, auth.RoleUser, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serveAuthed(handlerFunc http.HandlerFunc, rr *httptest.ResponseRecorder, req *http.Request) {
	middleware.Auth("secret")(handlerFunc).ServeHTTP(rr, req)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

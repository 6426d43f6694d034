package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datawallet/internal/middleware"
	"datawallet/internal/services"
)

type createFundingRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) CreateFundingRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createFundingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountKobo, err := parseAmountKobo(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	request, err := h.funding.Create(r.Context(), userID, amountKobo)
	if err != nil {
		if errors.Is(err, services.ErrBelowMinimum) {
			respondError(w, http.StatusBadRequest, "amount_below_minimum")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create funding request")
		return
	}
	respondJSON(w, http.StatusCreated, fundingPayload(request))
}

func (h *Handler) ListPendingFunding(w http.ResponseWriter, r *http.Request) {
	requests, err := h.funding.ListPending(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load funding requests")
		return
	}
	normalized := make([]map[string]any, 0, len(requests))
	for _, request := range requests {
		normalized = append(normalized, fundingPayload(request))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) ConfirmFunding(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	requestID := chi.URLParam(r, "id")
	if err := h.funding.Confirm(r.Context(), requestID, adminID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "funding request not found")
		case errors.Is(err, services.ErrNotPending):
			respondError(w, http.StatusConflict, "funding_request_not_pending")
		default:
			respondError(w, http.StatusInternalServerError, "failed to confirm funding")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

func (h *Handler) RejectFunding(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if err := h.funding.Reject(r.Context(), requestID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "funding request not found")
		case errors.Is(err, services.ErrNotPending):
			respondError(w, http.StatusConflict, "funding_request_not_pending")
		default:
			respondError(w, http.StatusInternalServerError, "failed to reject funding")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *Handler) GetPaymentSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, map[string]any{})
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load payment settings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"bank_name":      settings.BankName,
		"account_number": settings.AccountNumber,
		"account_name":   settings.AccountName,
		"updated_at":     settings.UpdatedAt,
	})
}

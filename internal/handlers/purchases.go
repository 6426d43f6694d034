package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"datawallet/internal/middleware"
	"datawallet/internal/money"
	"datawallet/internal/services"
	"datawallet/internal/validator"
)

func (h *Handler) ListBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.bundles.ListActive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load bundles")
		return
	}
	normalized := make([]map[string]any, 0, len(bundles))
	for _, bundle := range bundles {
		normalized = append(normalized, bundlePayload(bundle))
	}
	respondJSON(w, http.StatusOK, normalized)
}

type buyDataRequest struct {
	BundleID string `json:"bundle_id"`
	Phone    string `json:"phone"`
}

func (h *Handler) BuyData(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req buyDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.BundleID == "" {
		respondError(w, http.StatusBadRequest, "bundle_id is required")
		return
	}
	if err := validator.ValidatePhone(req.Phone); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	purchase, err := h.purchase.BuyData(r.Context(), userID, req.BundleID, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "bundle_not_found")
		case errors.Is(err, services.ErrInsufficientFunds):
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		default:
			respondError(w, http.StatusInternalServerError, "purchase_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":          purchase.ID,
		"bundle_id":   purchase.BundleID,
		"network":     purchase.Network,
		"data_amount": purchase.DataAmount,
		"phone":       purchase.Phone,
		"price":       money.FormatKobo(purchase.PriceKobo),
	})
}

type buyAirtimeRequest struct {
	Network string `json:"network"`
	Phone   string `json:"phone"`
	Amount  string `json:"amount"`
}

func (h *Handler) BuyAirtime(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req buyAirtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateNetwork(req.Network); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePhone(req.Phone); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amountKobo, err := parseAmountKobo(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	purchase, err := h.purchase.BuyAirtime(r.Context(), userID, req.Network, req.Phone, amountKobo)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, services.ErrInsufficientFunds):
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		default:
			respondError(w, http.StatusInternalServerError, "purchase_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":      purchase.ID,
		"network": purchase.Network,
		"phone":   purchase.Phone,
		"amount":  money.FormatKobo(purchase.AmountKobo),
	})
}

func (h *Handler) ListDataPurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	purchases, err := h.purchases.ListDataByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load purchases")
		return
	}
	normalized := make([]map[string]any, 0, len(purchases))
	for _, purchase := range purchases {
		normalized = append(normalized, map[string]any{
			"id":          purchase.ID,
			"bundle_id":   purchase.BundleID,
			"network":     purchase.Network,
			"data_amount": purchase.DataAmount,
			"phone":       purchase.Phone,
			"price":       money.FormatKobo(purchase.PriceKobo),
			"created_at":  purchase.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) ListAirtimePurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	purchases, err := h.purchases.ListAirtimeByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load purchases")
		return
	}
	normalized := make([]map[string]any, 0, len(purchases))
	for _, purchase := range purchases {
		normalized = append(normalized, map[string]any{
			"id":         purchase.ID,
			"network":    purchase.Network,
			"phone":      purchase.Phone,
			"amount":     money.FormatKobo(purchase.AmountKobo),
			"created_at": purchase.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

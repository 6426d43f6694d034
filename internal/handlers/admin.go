package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"datawallet/internal/auth"
	"datawallet/internal/money"
	"datawallet/internal/store"
	"datawallet/internal/websocket"
)

type paymentSettingsRequest struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

func (h *Handler) UpdatePaymentSettings(w http.ResponseWriter, r *http.Request) {
	var req paymentSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.BankName == "" || req.AccountNumber == "" || req.AccountName == "" {
		respondError(w, http.StatusBadRequest, "bank_name, account_number and account_name are required")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.settings.Upsert(r.Context(), tx, req.BankName, req.AccountNumber, req.AccountName)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update payment settings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type createBundleRequest struct {
	Network    string `json:"network"`
	DataAmount string `json:"data_amount"`
	Validity   string `json:"validity"`
	Price      string `json:"price"`
}

func (h *Handler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var req createBundleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Network == "" || req.DataAmount == "" || req.Validity == "" {
		respondError(w, http.StatusBadRequest, "network, data_amount and validity are required")
		return
	}
	priceKobo, err := parseAmountKobo(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	bundle := store.DataBundle{
		ID:         uuid.NewString(),
		Network:    req.Network,
		DataAmount: req.DataAmount,
		Validity:   req.Validity,
		PriceKobo:  priceKobo,
		IsActive:   true,
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.bundles.Create(r.Context(), tx, bundle)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create bundle")
		return
	}
	respondJSON(w, http.StatusCreated, bundlePayload(bundle))
}

// Reconcile compares each user's live balance against the sum of their
// transaction chain. Any nonzero difference means a balance mutation escaped
// the ledger and is flagged in the response and the log.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	type reconRow struct {
		UserID      string `db:"user_id"`
		Username    string `db:"username"`
		BalanceKobo int64  `db:"balance_kobo"`
		LedgerSum   int64  `db:"ledger_sum"`
		Difference  int64  `db:"difference"`
	}
	query := `
		SELECT u.id AS user_id,
		       u.username,
		       u.balance_kobo,
		       COALESCE(SUM(t.amount_kobo), 0) AS ledger_sum,
		       (u.balance_kobo - COALESCE(SUM(t.amount_kobo), 0)) AS difference
		FROM users u
		LEFT JOIN transactions t ON t.user_id = u.id
		GROUP BY u.id, u.username, u.balance_kobo
		ORDER BY u.username
	`
	var rows []reconRow
	if err := h.reconcileDB.SelectContext(r.Context(), &rows, query); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to reconcile balances")
		return
	}
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if row.Difference != 0 {
			h.log.Errorw("balance does not match transaction chain",
				"user_id", row.UserID, "difference", money.FormatKobo(row.Difference))
		}
		normalized = append(normalized, map[string]any{
			"user_id":    row.UserID,
			"username":   row.Username,
			"balance":    money.FormatKobo(row.BalanceKobo),
			"ledger_sum": money.FormatKobo(row.LedgerSum),
			"difference": money.FormatKobo(row.Difference),
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) WSBalance(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}

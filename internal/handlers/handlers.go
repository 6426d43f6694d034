package handlers

import (
	"encoding/json"
	"net/http"

	"datawallet/internal/money"
	"datawallet/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func userPayload(user store.User) map[string]any {
	return map[string]any{
		"id":                user.ID,
		"username":          user.Username,
		"phone":             user.Phone,
		"balance":           money.FormatKobo(user.BalanceKobo),
		"referral_code":     user.ReferralCode,
		"referral_count":    user.ReferralCount,
		"referral_earnings": money.FormatKobo(user.ReferralEarningsKobo),
		"created_at":        user.CreatedAt,
	}
}

func fundingPayload(request store.FundingRequest) map[string]any {
	return map[string]any{
		"id":           request.ID,
		"user_id":      request.UserID,
		"amount":       money.FormatKobo(request.AmountKobo),
		"status":       request.Status,
		"created_at":   request.CreatedAt,
		"confirmed_at": request.ConfirmedAt,
		"confirmed_by": request.ConfirmedBy,
	}
}

func transactionPayload(entry store.Transaction) map[string]any {
	return map[string]any{
		"id":             entry.ID,
		"user_id":        entry.UserID,
		"type":           entry.Type,
		"amount":         money.FormatKobo(entry.AmountKobo),
		"description":    entry.Description,
		"balance_before": money.FormatKobo(entry.BalanceBeforeKobo),
		"balance_after":  money.FormatKobo(entry.BalanceAfterKobo),
		"created_at":     entry.CreatedAt,
	}
}

func bundlePayload(bundle store.DataBundle) map[string]any {
	return map[string]any{
		"id":          bundle.ID,
		"network":     bundle.Network,
		"data_amount": bundle.DataAmount,
		"validity":    bundle.Validity,
		"price":       money.FormatKobo(bundle.PriceKobo),
		"is_active":   bundle.IsActive,
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"datawallet/internal/otp"
	"datawallet/internal/validator"
)

type requestOTPRequest struct {
	Phone string `json:"phone"`
}

func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidatePhone(req.Phone); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.otp.Issue(r.Context(), req.Phone); err != nil {
		switch {
		case errors.Is(err, otp.ErrChannelNotLinked):
			respondError(w, http.StatusBadRequest, "telegram_not_linked")
		case errors.Is(err, otp.ErrDeliveryFailed):
			respondError(w, http.StatusBadGateway, "otp_delivery_failed")
		default:
			respondError(w, http.StatusInternalServerError, "failed to send code")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "code_sent"})
}

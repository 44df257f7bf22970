package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/checkout"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/payment"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/records"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/session"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/store"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps service errors to HTTP statuses. Unmapped errors are
// logged with the request logger and returned as 500 with their message.
func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		status int
		code   string
	)

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status, code = http.StatusNotFound, "session_not_found"
	case errors.Is(err, records.ErrProductNotFound):
		status, code = http.StatusNotFound, "product_not_found"
	case errors.Is(err, records.ErrSaleNotFound):
		status, code = http.StatusNotFound, "sale_not_found"
	case errors.Is(err, checkout.ErrEmptyCart):
		status, code = http.StatusBadRequest, "empty_cart"
	case errors.Is(err, payment.ErrUnknownMethod):
		status, code = http.StatusBadRequest, "unknown_payment_method"
	case errors.Is(err, checkout.ErrInsufficientStock):
		status, code = http.StatusConflict, "insufficient_stock"
	case errors.Is(err, store.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
		logger.FromContext(ctx).Error("request failed", zap.Error(err))
	}

	resp := ErrorResponse{Error: err.Error(), Code: code}
	var stepErr *checkout.StepError
	if errors.As(err, &stepErr) {
		resp.Details = string(stepErr.Status)
	}
	respondJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
	"github.com/openlots/lendpool/pkg/slogx"
)

// writeAuthRequired emits the uniform 401 body used for every authentication
// failure, whatever the cause.
func writeAuthRequired(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusUnauthorized, map[string]any{
		"error":         "Authentication required",
		"authenticated": false,
	})
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unexpected logs the real error and returns a generic 500 body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError

	switch {
	case errors.As(err, &ve):
		httpx.WriteError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthenticated):
		writeAuthRequired(w)
	case errors.Is(err, service.ErrDuplicateEmail):
		httpx.WriteError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, service.ErrDuplicateInvestment):
		httpx.WriteError(w, http.StatusConflict, "You have already invested in this pool")
	case errors.Is(err, service.ErrPoolNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Pool not found")
	case errors.Is(err, service.ErrPoolNotActive):
		httpx.WriteError(w, http.StatusBadRequest, "Pool is not accepting investments")
	case errors.Is(err, service.ErrPoolHasInvestments):
		httpx.WriteError(w, http.StatusConflict, "Pool has investments and cannot be deleted")
	case errors.Is(err, service.ErrAmountExceedsPool):
		httpx.WriteError(w, http.StatusBadRequest, "Amount exceeds the pool's requested amount")
	case errors.Is(err, service.ErrCodeInvalid):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired verification code")
	default:
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

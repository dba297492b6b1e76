package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"fsanano/storefront/internal/currency"
	"fsanano/storefront/internal/service"
	"fsanano/storefront/internal/service/storeapi"

	"github.com/go-chi/chi/v5"
)

var (
	errInvalidBody = errors.New("invalid request body")
	errInvalidID   = errors.New("invalid id")
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// fail reports err to the client and shows it as an error toast.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.toaster.Err(err)
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	var apiErr *storeapi.ErrorResponse
	switch {
	case errors.Is(err, service.ErrNotLoggedIn), errors.Is(err, storeapi.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, service.ErrCheckoutInProgress):
		return http.StatusConflict
	case service.IsPrecondition(err),
		errors.Is(err, currency.ErrInvalidCurrency),
		errors.Is(err, errInvalidBody),
		errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	case errors.As(err, &apiErr) && apiErr.Status >= 400:
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, chi.URLParam(r, name))
	}
	return id, nil
}

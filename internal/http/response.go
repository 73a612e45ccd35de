package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"finbook/internal/core"
)

// Envelope is the common shape of every API response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(env)
}

func respondSuccess(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
		Code:    code,
	})
}

func respondError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(w, code, Envelope{
		Status:  "error",
		Message: message,
		Code:    code,
	})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Envelope{
		Status:  "error",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrIncomeNotFound),
		errors.Is(err, core.ErrExpenseNotFound),
		errors.Is(err, core.ErrBudgetNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUsernameTaken),
		errors.Is(err, core.ErrUserHasRecords):
		return http.StatusConflict
	case errors.Is(err, core.ErrMissingUser),
		errors.Is(err, core.ErrMissingUsername),
		errors.Is(err, core.ErrNegativeAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

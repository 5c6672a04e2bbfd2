package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"aeroparts/checkout"
	"aeroparts/domain"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Response{Data: data})
}

func writeFailure(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: chimw.GetReqID(r.Context())},
	})
}

func writeInvalid(w http.ResponseWriter, r *http.Request, message string) {
	writeFailure(w, r, http.StatusBadRequest, "INVALID_INPUT", message)
}

// writeError maps domain and checkout errors onto status codes. Anything
// unrecognised is logged and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error, l *slog.Logger) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "VALIDATION_ERROR",
				Message:   "request validation failed",
				Fields:    verr.Fields(),
				RequestID: chimw.GetReqID(r.Context()),
			},
		})
	case domain.IsNotFoundError(err):
		writeFailure(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
	case domain.IsInvalidEntityError(err),
		errors.Is(err, checkout.ErrInvalidBuyNow),
		errors.Is(err, checkout.ErrUnknownSource):
		writeInvalid(w, r, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNoBuyNowItem),
		errors.Is(err, checkout.ErrShippingRequired):
		writeFailure(w, r, http.StatusUnprocessableEntity, "CHECKOUT_INCOMPLETE", err.Error())
	case errors.Is(err, checkout.ErrPaymentFailed):
		writeFailure(w, r, http.StatusPaymentRequired, "PAYMENT_FAILED", err.Error())
	default:
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		writeFailure(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}

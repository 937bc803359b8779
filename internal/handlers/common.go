package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"travel-journal-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// respondJSON sends v as a JSON response
func respondJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Int("status", statusCode).Msg("Failed to encode response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: true, Message: message}, statusCode)
}

// respondServiceError maps a service error onto a status code and a client-safe message.
// notFound is the message used for models.ErrNotFound.
func respondServiceError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(w, validationMessage(err), http.StatusBadRequest)
	case errors.Is(err, models.ErrConflict):
		respondError(w, "User already exists", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidCredentials):
		respondError(w, "Invalid Credentials", http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		respondError(w, notFound, http.StatusNotFound)
	case errors.Is(err, models.ErrUnauthorized):
		respondError(w, "User no longer exists", http.StatusUnauthorized)
	case errors.Is(err, models.ErrUnsupportedMediaType):
		respondError(w, "Only .png, .jpg and .jpeg images are allowed", http.StatusUnsupportedMediaType)
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// validationMessage strips the sentinel and any wrapping context from a validation error
func validationMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+models.ErrValidation.Error())
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	return msg
}

// epochMillis is a timestamp in epoch milliseconds sent as a JSON number or numeric string
type epochMillis int64

func (m *epochMillis) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*m = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*m = 0
		return nil
	}

	ms, err := parseMillis(s)
	if err != nil {
		return err
	}
	*m = epochMillis(ms)
	return nil
}

var errNotMillis = errors.New("timestamp must be integral epoch milliseconds")

// parseMillis parses a whole number of epoch milliseconds.
// Decimal forms such as 1.7e12 are accepted only when finite, integral and within int64.
func parseMillis(s string) (int64, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotMillis
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errNotMillis
	}
	return int64(f), nil
}

package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RespondJSON writes payload as the response body with the given status code.
func RespondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondError writes a JSON error body with the given status code.
func RespondError(w http.ResponseWriter, code int, message string) {
	RespondJSON(w, code, map[string]string{"error": message})
}

// ParseID extracts a numeric path variable from the request.
func ParseID(r *http.Request, name string) (uint, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars[name], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// ParseWindow reads the skip/limit query parameters. Defaults are 0/100,
// with no upper cap; unparseable values fall back to the defaults.
func ParseWindow(r *http.Request) (int, int) {
	query := r.URL.Query()

	skip := 0
	if s := query.Get("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			skip = parsed
		}
	}

	limit := 100
	if s := query.Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			limit = parsed
		}
	}

	return skip, limit
}

// IsDuplicateKeyError reports whether err came from a unique-constraint
// violation. The pre-insert existence checks are best effort only; the
// database index is what actually enforces uniqueness under concurrency.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// RequestID tags every request with an X-Request-ID header so individual
// requests can be traced through the access log.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set("X-Request-ID", requestID)
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

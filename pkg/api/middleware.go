package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/segmentio/ksuid"
)

type requestIDKey struct{}

// requestIDMiddleware stamps every request with a k-sortable correlation ID,
// echoed back as X-Request-ID, so a request can be traced through logs
// without a database to join against.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ksuid.New()
		w.Header().Set("X-Request-ID", id.String())
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestIDFromContext retrieves the ID requestIDMiddleware attached, if any.
func requestIDFromContext(ctx context.Context) (ksuid.KSUID, bool) {
	id, ok := ctx.Value(requestIDKey{}).(ksuid.KSUID)
	return id, ok
}

// sendSuccess sends a successful JSON response
func sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	response := APIResponse{
		Success: true,
		Data:    data,
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// sendError sends an error JSON response
func sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   message,
	}
	_ = json.NewEncoder(w).Encode(response)
}

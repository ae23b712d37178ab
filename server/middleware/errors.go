package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/kbukum/getscript/logger"
)

// ErrorBody is the JSON body written when middleware ends a request.
// It matches the failure envelope of the API handlers.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
	Stack     string `json:"stack,omitempty"`
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	if body.RequestID == "" {
		body.RequestID = logger.RequestIDFromContext(r.Context())
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

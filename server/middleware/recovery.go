package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/getscript/logger"
)

// Recovery returns middleware that turns a panic into a JSON 500 response.
// The stack trace is logged always and included in the body only when
// debug is set.
func Recovery(log *logger.Logger, debugMode bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				stack := string(debug.Stack())
				log.WithContext(r.Context()).Error("panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", rec),
					"stack", stack,
					"method", r.Method,
					"path", r.URL.Path,
				))

				body := ErrorBody{Error: "Internal server error"}
				if debugMode {
					body.Stack = stack
				}
				writeJSONError(w, r, http.StatusInternalServerError, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

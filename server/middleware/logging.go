package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/getscript/logger"
)

var quietPaths = map[string]bool{
	"/health": true,
	"/info":   true,
}

// RequestLogger returns middleware that logs every request with method,
// path, status code, and duration. Health and info probes are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				"bytes", rec.bytes,
				logger.FieldStatus, rec.status,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			if q := r.URL.Query().Get("url"); q != "" {
				fields[logger.FieldVideoURL] = q
			}
			logByStatus(log.WithContext(r.Context()), fields, rec.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]any, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Info("request completed", fields)
	}
}

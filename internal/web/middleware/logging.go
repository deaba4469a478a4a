// Package middleware provides HTTP middleware for the report server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/JonMunkholm/contractcheck/internal/logging"
)

type validationsKey struct{}

// validations collects the contracts checked while serving one request.
type validations struct {
	mu        sync.Mutex
	contracts []string
	issues    int
	fatal     int
}

// RecordValidation adds a checked contract to the access log entry of the
// request. Outside Logger it does nothing.
func RecordValidation(ctx context.Context, contract string, issues int, fatal bool) {
	v, ok := ctx.Value(validationsKey{}).(*validations)
	if !ok {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.contracts = append(v.contracts, contract)
	v.issues += issues
	if fatal {
		v.fatal++
	}
}

func (v *validations) attrs() []any {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.contracts) == 0 {
		return nil
	}
	return []any{
		"contracts", v.contracts,
		"checked", len(v.contracts),
		"issues", v.issues,
		"fatal", v.fatal,
	}
}

// Logger writes one structured entry per request through logging.FromContext,
// so request_id is attached. Requests that validated contracts also log the
// contract names with their issue and fatal counts. 4xx responses log at
// warn and 5xx at error.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		v := &validations{}
		r = r.WithContext(context.WithValue(r.Context(), validationsKey{}, v))
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		}
		args = append(args, v.attrs()...)

		level := slog.LevelInfo
		switch {
		case sw.status >= 500:
			level = slog.LevelError
		case sw.status >= 400:
			level = slog.LevelWarn
		}
		logging.FromContext(r.Context()).Log(r.Context(), level, "request", args...)
	})
}

// statusWriter records the first status written.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

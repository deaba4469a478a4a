package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical details and request ID, then
// returned to the client as a core.UserError, either as JSON (API routes)
// or as plain text (pages).

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/JonMunkholm/contractcheck/internal/core"
	"github.com/JonMunkholm/contractcheck/internal/logging"
	"github.com/JonMunkholm/contractcheck/internal/store"
)

// ErrorResponse represents the JSON structure for API error responses.
// Error is the formatted line shown to users; Code is for support.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status of an error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrTooManyValidations):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrReportNotFound), errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and returns the mapped user message
// in the format the client expects. Errors with no known code log at error
// level; the rest are expected conditions and log at warn.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	uerr := core.NewUserError(err)

	level := slog.LevelWarn
	if !core.IsUserFacing(err) {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", uerr.Technical,
		"code", uerr.User.Code,
	)

	if statusCode == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	if wantsJSON(r) {
		writeJSON(w, r, statusCode, newErrorResponse(uerr))
	} else {
		http.Error(w, core.FormatUserError(uerr.Technical), statusCode)
	}
}

// newErrorResponse renders a user error for the API.
func newErrorResponse(uerr *core.UserError) ErrorResponse {
	return ErrorResponse{
		Error:   core.FormatUserError(uerr.Technical),
		Message: uerr.User.Message,
		Action:  uerr.User.Action,
		Code:    uerr.User.Code,
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}

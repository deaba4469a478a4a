package web

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/contractcheck/internal/core"
	"github.com/JonMunkholm/contractcheck/internal/logging"
	"github.com/JonMunkholm/contractcheck/internal/report"
	"github.com/JonMunkholm/contractcheck/internal/web/middleware"
)

const reportsPath = "/reports/"

// handleIndex renders the list of stored reports.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Reports.List()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Index(list, reportsPath).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleReportPage renders one stored report as HTML.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Reports.Load(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Page(rep).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render report", "error", err)
	}
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Reports.List()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Reports.Load(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, rep)
}

// handleHealth reports validation capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":      "ok",
		"validations": s.deps.Limiter.Status(),
	})
}

// handleValidate checks a contract from the configured contract directory,
// stores its report and returns it. A fatal contract condition is a
// completed validation: the partial report is stored and returned with 200.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if file == "" || file == "." || file == ".." || filepath.Base(file) != file || strings.ContainsAny(file, `/\`) {
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid contract file name",
			Message: "invalid contract file name",
			Code:    "REQ001",
		})
		return
	}

	var (
		rep      *core.FileReport
		checkErr error
	)
	err := s.deps.Limiter.Do(r.Context(), func(ctx context.Context) error {
		if s.deps.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.deps.Timeout)
			defer cancel()
		}

		rep, checkErr = s.deps.Checker.Check(ctx, file)
		if checkErr != nil && !core.IsFatal(checkErr) {
			return checkErr
		}
		middleware.RecordValidation(r.Context(), file, rep.IssueCount(), rep.Fatal)
		_, err := s.deps.Publisher.Publish(ctx, rep)
		return err
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	resp := validateResponse{FileReport: rep}
	if checkErr != nil {
		uerr := newErrorResponse(core.NewUserError(checkErr))
		resp.FatalError = &uerr
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// validateResponse is the checked report plus, for a fatal contract, the
// user message of the condition that stopped the check.
type validateResponse struct {
	*core.FileReport
	FatalError *ErrorResponse `json:"fatalError,omitempty"`
}

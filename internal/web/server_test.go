package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/contractcheck/internal/config"
	"github.com/JonMunkholm/contractcheck/internal/core"
	"github.com/JonMunkholm/contractcheck/internal/metrics"
	"github.com/JonMunkholm/contractcheck/internal/report"
	"github.com/JonMunkholm/contractcheck/internal/store"
)

// fakeChecker returns canned results per file.
type fakeChecker struct {
	reports map[string]*core.FileReport
	errs    map[string]error
}

func (f *fakeChecker) Check(_ context.Context, file string) (*core.FileReport, error) {
	rep := f.reports[file]
	if rep == nil {
		rep = &core.FileReport{Contract: file}
	}
	return rep, f.errs[file]
}

// fakeSink records persisted reports.
type fakeSink struct{ saved []string }

func (f *fakeSink) Save(_ context.Context, r *core.FileReport) error {
	f.saved = append(f.saved, r.Contract)
	return nil
}

type fixture struct {
	srv       *Server
	sink      *fakeSink
	reportDir string
	registry  *prometheus.Registry
}

func newFixture(t *testing.T, checker *fakeChecker, cfg config.ServerConfig, limiter *core.ValidationLimiter) *fixture {
	t.Helper()
	dir := t.TempDir()
	reports, err := store.NewFileStore(filepath.Join(dir, "issues"), store.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	metrics.NewRecorder(reg).ObserveFile(core.StatusIssues, time.Second)

	f := &fixture{sink: &fakeSink{}, reportDir: filepath.Join(dir, "reports"), registry: reg}
	f.srv = NewServer(cfg, Deps{
		Checker:   checker,
		Reports:   reports,
		Publisher: &report.Publisher{Issues: reports, HTMLDir: f.reportDir, Sink: f.sink},
		Limiter:   limiter,
		Gatherer:  reg,
		Timeout:   time.Minute,
	})
	return f
}

func (f *fixture) do(method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

func issuesReport(name string) *core.FileReport {
	return &core.FileReport{
		Contract:  name,
		Entity:    "ACME",
		RunID:     "run-1",
		CheckedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Datasets: []core.DatasetIssueReport{{
			DatasetName: "orders",
			AllIssue: []core.CategoryIssues{{
				Location: "Format",
				Issues:   []core.Issue{{Type: core.SeverityError, IssueValue: "The issue in the Format.", Location: "H4"}},
			}},
		}},
	}
}

func TestValidateThenBrowse(t *testing.T) {
	const file = "ACME_orders_SPRINT5.xlsx"
	f := newFixture(t, &fakeChecker{reports: map[string]*core.FileReport{file: issuesReport(file)}},
		config.ServerConfig{}, nil)

	rec := f.do(http.MethodPost, "/api/validate/"+file, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate status = %d, body %s", rec.Code, rec.Body)
	}
	var got core.FileReport
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.IssueCount() != 1 {
		t.Errorf("IssueCount() = %d, want 1", got.IssueCount())
	}
	if len(f.sink.saved) != 1 || f.sink.saved[0] != file {
		t.Errorf("persisted = %v, want [%s]", f.sink.saved, file)
	}
	if _, err := os.Stat(filepath.Join(f.reportDir, "ACME_orders_SPRINT5_report.html")); err != nil {
		t.Errorf("html report not written: %v", err)
	}

	rec = f.do(http.MethodGet, "/api/reports/ACME_orders_SPRINT5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get report status = %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/reports/ACME_orders_SPRINT5", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<h1>"+file+"</h1>") {
		t.Errorf("report page status = %d, body %s", rec.Code, rec.Body)
	}

	rec = f.do(http.MethodGet, "/", nil)
	if !strings.Contains(rec.Body.String(), `href="/reports/ACME_orders_SPRINT5"`) {
		t.Errorf("index does not link the report: %s", rec.Body)
	}

	rec = f.do(http.MethodGet, "/api/reports", nil)
	var list []store.Summary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil || len(list) != 1 {
		t.Errorf("list = %v, err %v", list, err)
	}
}

func TestValidateFatalIsStored(t *testing.T) {
	const file = "nounderscore.xlsx"
	rep := &core.FileReport{Contract: file, Fatal: true, OtherIssues: []core.Issue{{Location: "Entity Name Check"}}}
	f := newFixture(t, &fakeChecker{
		reports: map[string]*core.FileReport{file: rep},
		errs:    map[string]error{file: &core.FatalError{Code: "ENT002", Err: core.ErrEntityNameMissing}},
	}, config.ServerConfig{}, nil)

	rec := f.do(http.MethodPost, "/api/validate/"+file, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var got struct {
		Contract   string         `json:"contract"`
		Fatal      bool           `json:"fatal"`
		FatalError *ErrorResponse `json:"fatalError"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Fatal || got.Contract != file {
		t.Errorf("report = %+v, want fatal report of %s", got, file)
	}
	if got.FatalError == nil || got.FatalError.Code != "ENT002" {
		t.Fatalf("fatalError = %+v, want ENT002", got.FatalError)
	}
	want := "Contract file name has no entity prefix (Code: ENT002). Rename the file to ENTITY_NAME_CONTRACTNAME_SPRINT<n>.xlsx"
	if got.FatalError.Error != want {
		t.Errorf("fatalError.error = %q, want %q", got.FatalError.Error, want)
	}
	if len(f.sink.saved) != 1 {
		t.Errorf("fatal report not persisted: %v", f.sink.saved)
	}
}

func TestValidateErrors(t *testing.T) {
	const missing = "ACME_missing_SPRINT1.xlsx"
	checker := &fakeChecker{errs: map[string]error{
		missing: fmt.Errorf("read contract %s: %w", missing, os.ErrNotExist),
	}}

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantErr  string
	}{
		{"missing contract", "/api/validate/" + missing, http.StatusNotFound, "FILE001"},
		{"dot dot", "/api/validate/..", http.StatusBadRequest, "REQ001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, checker, config.ServerConfig{}, nil)
			rec := f.do(http.MethodPost, tt.path, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantErr)
			}
		})
	}
}

func TestValidateBusy(t *testing.T) {
	limiter := core.NewValidationLimiter(1, 10*time.Millisecond)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	f := newFixture(t, &fakeChecker{}, config.ServerConfig{}, limiter)
	rec := f.do(http.MethodPost, "/api/validate/ACME_x_SPRINT1.xlsx", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if !strings.Contains(rec.Body.String(), "VAL001") {
		t.Errorf("body %s lacks VAL001", rec.Body)
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	f := newFixture(t, &fakeChecker{}, config.ServerConfig{APIKeys: []string{"secret"}}, nil)

	if rec := f.do(http.MethodPost, "/api/validate/ACME_x_SPRINT1.xlsx", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("without key: status = %d, want 401", rec.Code)
	}
	rec := f.do(http.MethodPost, "/api/validate/ACME_x_SPRINT1.xlsx", map[string]string{"X-API-Key": "secret"})
	if rec.Code != http.StatusOK {
		t.Errorf("with key: status = %d, want 200", rec.Code)
	}
	// Reading reports stays open.
	if rec := f.do(http.MethodGet, "/api/reports", nil); rec.Code != http.StatusOK {
		t.Errorf("list: status = %d, want 200", rec.Code)
	}
}

func TestReportNotFound(t *testing.T) {
	f := newFixture(t, &fakeChecker{}, config.ServerConfig{}, nil)

	rec := f.do(http.MethodGet, "/api/reports/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("api status = %d, want 404", rec.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Code != "RPT001" {
		t.Errorf("api error = %+v (%v), want RPT001", resp, err)
	}

	rec = f.do(http.MethodGet, "/reports/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("page status = %d, want 404", rec.Code)
	}
	if want := "Report not found (Code: RPT001)."; !strings.Contains(rec.Body.String(), want) {
		t.Errorf("page body %q lacks %q", rec.Body, want)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, &fakeChecker{}, config.ServerConfig{}, core.NewValidationLimiter(3, time.Second))

	rec := f.do(http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"max_concurrent":3`) {
		t.Errorf("healthz status = %d, body %s", rec.Code, rec.Body)
	}

	rec = f.do(http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "contractcheck_files_total") {
		t.Errorf("metrics status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestSecurityHeaders(t *testing.T) {
	f := newFixture(t, &fakeChecker{}, config.ServerConfig{}, nil)
	rec := f.do(http.MethodGet, "/", nil)
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestCORS(t *testing.T) {
	f := newFixture(t, &fakeChecker{}, config.ServerConfig{CORSOrigins: []string{"https://portal.example.com"}}, nil)

	rec := f.do(http.MethodGet, "/api/reports", map[string]string{"Origin": "https://portal.example.com"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.example.com" {
		t.Errorf("allowed origin header = %q", got)
	}

	rec = f.do(http.MethodGet, "/api/reports", map[string]string{"Origin": "https://evil.example.com"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got header %q", got)
	}
}

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/contractcheck/internal/logging"
)

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		keys   []string
		header string
		want   int
	}{
		{"disabled", nil, "", http.StatusNoContent},
		{"missing key", []string{"k1"}, "", http.StatusUnauthorized},
		{"wrong key", []string{"k1"}, "nope", http.StatusForbidden},
		{"valid key", []string{"k1", "k2"}, "k2", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/validate/x.xlsx", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			rec := httptest.NewRecorder()
			APIKeyAuth(tt.keys)(ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted keeps remote", []string{"10.0.0.0/8"}, "192.0.2.1:1234",
			map[string]string{"X-Real-IP": "203.0.113.9"}, "192.0.2.1:1234"},
		{"trusted uses real ip", []string{"10.0.0.0/8"}, "10.1.2.3:1234",
			map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"trusted single address uses forwarded for", []string{"127.0.0.1"}, "127.0.0.1:80",
			map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"invalid header ignored", []string{"10.0.0.0/8"}, "10.1.2.3:1234",
			map[string]string{"X-Real-IP": "not-an-ip"}, "10.1.2.3:1234"},
		{"bad entry skipped", []string{"garbage"}, "10.1.2.3:1234",
			map[string]string{"X-Real-IP": "203.0.113.9"}, "10.1.2.3:1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoggerCapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

// captureLog installs a JSON logger writing to the returned buffer for the
// duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "debug", "json"))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggerRecordsValidations(t *testing.T) {
	buf := captureLog(t)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RecordValidation(r.Context(), "ACME_orders_SPRINT5.xlsx", 3, false)
		RecordValidation(r.Context(), "ACME_users_SPRINT5.xlsx", 1, true)
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/validate/x", nil))

	var entry struct {
		Msg       string   `json:"msg"`
		Level     string   `json:"level"`
		Status    int      `json:"status"`
		Contracts []string `json:"contracts"`
		Checked   int      `json:"checked"`
		Issues    int      `json:"issues"`
		Fatal     int      `json:"fatal"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", buf.String(), err)
	}
	if entry.Msg != "request" || entry.Level != "INFO" || entry.Status != http.StatusOK {
		t.Errorf("entry = %+v, want INFO request with status 200", entry)
	}
	if entry.Checked != 2 || len(entry.Contracts) != 2 || entry.Contracts[0] != "ACME_orders_SPRINT5.xlsx" {
		t.Errorf("contracts = %v (checked %d), want both files", entry.Contracts, entry.Checked)
	}
	if entry.Issues != 4 || entry.Fatal != 1 {
		t.Errorf("issues = %d fatal = %d, want 4 and 1", entry.Issues, entry.Fatal)
	}
}

func TestLoggerLevelAndNoValidation(t *testing.T) {
	buf := captureLog(t)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reports/none", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry %q: %v", buf.String(), err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if _, ok := entry["contracts"]; ok {
		t.Error("request without validation should not log contracts")
	}
}

func TestRecordValidationOutsideLogger(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RecordValidation(req.Context(), "ACME_orders_SPRINT5.xlsx", 1, false)
}

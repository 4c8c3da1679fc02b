package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
}

// --- Chain ---

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler(), mark("a"), mark("b"), mark("c")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "a,b,c" {
		t.Errorf("Chain order = %v, want a,b,c", order)
	}
}

// --- BodySizeLimit ---

func TestBodySizeLimit_AllowsSmallRequest(t *testing.T) {
	handler := BodySizeLimit(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", strings.NewReader("small body")))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestBodySizeLimit_RejectsLargeContentLength(t *testing.T) {
	handler := BodySizeLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for oversized request")
	}))

	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	req.ContentLength = 1000

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status %d, got %d", http.StatusRequestEntityTooLarge, rr.Code)
	}
}

func TestBodySizeLimit_LimitsActualBody(t *testing.T) {
	handler := BodySizeLimit(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, "Body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 100)))
	req.ContentLength = -1

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status %d, got %d", http.StatusRequestEntityTooLarge, rr.Code)
	}
}

// --- PanicRecovery ---

func TestPanicRecovery_HandlesNormalRequest(t *testing.T) {
	rr := httptest.NewRecorder()
	PanicRecovery(logging.NewNopLogger())(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Errorf("Expected 200 OK, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestPanicRecovery_RecoversPanic(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewJSONLogger(&logs, logging.DebugLevel)

	handler := PanicRecovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/graphs", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if strings.Contains(rr.Body.String(), "test panic") {
		t.Error("Response should not contain panic message")
	}
	if !strings.Contains(logs.String(), "test panic") {
		t.Error("Panic should be logged")
	}
}

// --- Logging ---

func TestLogging_RecordsStatusAndRequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewJSONLogger(&logs, logging.DebugLevel)

	handler := RequestID()(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry logging.LogEntry
	if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", logs.String(), err)
	}
	if entry.Fields["status"] != float64(http.StatusTeapot) {
		t.Errorf("status field = %v, want 418", entry.Fields["status"])
	}
	if entry.Fields["request_id"] != "abc-123" {
		t.Errorf("request_id field = %v, want abc-123", entry.Fields["request_id"])
	}
}

func TestLogging_ServerErrorsAtWarn(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewJSONLogger(&logs, logging.WarnLevel)

	Logging(logger)(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if logs.Len() != 0 {
		t.Errorf("successful request logged at warn: %s", logs.String())
	}

	Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !strings.Contains(logs.String(), `"level":"WARN"`) {
		t.Errorf("5xx not logged at warn: %s", logs.String())
	}
}

// --- RequestID ---

func TestRequestID_GeneratesUUID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", seen, err)
	}
	if rr.Header().Get(RequestIDHeader) != seen {
		t.Errorf("response header %q does not match context id %q", rr.Header().Get(RequestIDHeader), seen)
	}
}

func TestRequestID_UsesClientProvided(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "client-id-1" {
		t.Errorf("Expected client-id-1, got %q", seen)
	}
}

func TestSanitizeRequestID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc-123_x.y", "abc-123_x.y"},
		{"abc<script>", "abcscript"},
		{"a b\nc", "abc"},
		{strings.Repeat("a", 100), strings.Repeat("a", 64)},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sanitizeRequestID(tt.input); got != tt.expected {
			t.Errorf("sanitizeRequestID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGetRequestID_NoContext(t *testing.T) {
	if id := GetRequestID(httptest.NewRequest("GET", "/", nil)); id != "" {
		t.Errorf("Expected empty id, got %q", id)
	}
}

// --- CORS ---

func TestCORS_AllowedOrigin(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/graphs", nil)
	req.Header.Set("Origin", "https://viz.example.com")
	rr := httptest.NewRecorder()

	CORS([]string{"https://viz.example.com"})(okHandler()).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "https://viz.example.com" {
		t.Error("Expected Access-Control-Allow-Origin header")
	}
	if rr.Body.String() != "OK" {
		t.Error("Handler should run for simple requests")
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.com")
	rr := httptest.NewRecorder()

	CORS([]string{"https://viz.example.com"})(okHandler()).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("Should not set CORS header for disallowed origin")
	}
}

func TestCORS_Wildcard(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://any.example")
	rr := httptest.NewRecorder()

	CORS([]string{"*"})(okHandler()).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "https://any.example" {
		t.Error("Wildcard should allow any origin")
	}
}

func TestCORS_Preflight(t *testing.T) {
	tests := []struct {
		name     string
		origins  []string
		expected int
	}{
		{"allowed", []string{"https://viz.example.com"}, http.StatusNoContent},
		{"disallowed", []string{"https://other.example"}, http.StatusForbidden},
		{"none configured", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("Handler should not be called for preflight")
			}))

			req := httptest.NewRequest("OPTIONS", "/api/step", nil)
			req.Header.Set("Origin", "https://viz.example.com")
			req.Header.Set("Access-Control-Request-Method", "POST")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expected {
				t.Errorf("Expected status %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	got := ParseOrigins(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("ParseOrigins() = %v", got)
	}
	if ParseOrigins("") != nil {
		t.Error("empty input should yield nil")
	}
}

// --- Metrics ---

type mockMetricsRecorder struct {
	requests []string
	inFlight int
}

func (m *mockMetricsRecorder) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.requests = append(m.requests, method+" "+path+" "+status)
}

func (m *mockMetricsRecorder) IncHTTPRequestsInFlight() { m.inFlight++ }
func (m *mockMetricsRecorder) DecHTTPRequestsInFlight() { m.inFlight-- }

func TestMetrics_RecordsRequest(t *testing.T) {
	recorder := &mockMetricsRecorder{}
	handler := Metrics(recorder, "/api/graphs")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/graphs" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/graphs", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/random/123", nil))

	if len(recorder.requests) != 2 {
		t.Fatalf("Expected 2 recorded requests, got %d", len(recorder.requests))
	}
	if recorder.requests[0] != "GET /api/graphs 200" {
		t.Errorf("Unexpected recorded request: %s", recorder.requests[0])
	}
	if recorder.requests[1] != "GET other 404" {
		t.Errorf("Unknown path should collapse to other, got %s", recorder.requests[1])
	}
}

func TestMetrics_TracksInFlight(t *testing.T) {
	recorder := &mockMetricsRecorder{}
	var during int

	handler := Metrics(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = recorder.inFlight
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if during != 1 || recorder.inFlight != 0 {
		t.Errorf("in-flight during=%d after=%d, want 1 and 0", during, recorder.inFlight)
	}
}

func TestMetrics_NilRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	Metrics(nil)(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestStatusWriter_FirstHeaderWins(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	sw.WriteHeader(http.StatusNotFound)
	sw.WriteHeader(http.StatusInternalServerError)

	if sw.statusCode != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, sw.statusCode)
	}
}

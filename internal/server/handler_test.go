package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hirescan/internal/config"
	"hirescan/internal/errors"
	"hirescan/internal/export"
	"hirescan/internal/observability"
	"hirescan/internal/types"
)

func testObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("NewObservabilityManager: %v", err)
	}
	return om
}

func testServer(t *testing.T, apiKeys []string) *Server {
	t.Helper()
	logger := errors.NewLogger(slog.LevelError)
	fonts, err := export.LoadFonts("", "")
	if err != nil {
		t.Fatalf("LoadFonts: %v", err)
	}
	engine, err := export.NewEngine(export.DefaultGeometry(), fonts, logger)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	cfg := ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1 << 20,
	}
	return NewServer(nil, cfg, engine, logger)
}

func exportBody(t *testing.T, req types.ExportRequest) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewReader(data)
}

func guideExportRequest() types.ExportRequest {
	return types.ExportRequest{
		Candidate: types.CandidateProfile{
			Name:       "Jordan Wu",
			TotalScore: 82,
		},
		Job:       types.JobInfo{Title: "Platform Engineer"},
		GuideText: "## Focus Areas\n\n- Ask about incident response\n- Press for ownership",
	}
}

func TestExportHandlerReturnsPDF(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createExportHandler(testObservability(t), types.KindGuide)

	r := httptest.NewRequest(http.MethodPost, "/export/guide", exportBody(t, guideExportRequest()))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("response body is not a PDF")
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, ".pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if w.Header().Get("X-Document-Pages") == "" {
		t.Error("missing X-Document-Pages header")
	}
}

func TestExportHandlerForcesKindFromEndpoint(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createExportHandler(testObservability(t), types.KindReport)

	req := guideExportRequest()
	req.Kind = types.KindGuide // must be ignored, endpoint wins
	req.Candidate.Summary = "Strong platform background."
	req.Candidate.Metrics = []types.MetricResult{{Name: "Ownership", Score: 4, Reason: "Led migrations."}}

	r := httptest.NewRequest(http.MethodPost, "/export/report", exportBody(t, req))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Evaluation") {
		t.Errorf("expected report file name in Content-Disposition, got %q", cd)
	}
}

func TestExportHandlerRejectsBadRequests(t *testing.T) {
	s := testServer(t, nil)

	tests := []struct {
		name        string
		kind        types.DocumentKind
		contentType string
		body        string
		wantStatus  int
	}{
		{
			name:        "wrong content type",
			kind:        types.KindGuide,
			contentType: "text/plain",
			body:        "{}",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "malformed json",
			kind:        types.KindGuide,
			contentType: "application/json",
			body:        "{not json",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "empty candidate",
			kind:        types.KindReport,
			contentType: "application/json",
			body:        `{"candidate":{},"job":{"title":"SRE"}}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "guide without text",
			kind:        types.KindGuide,
			contentType: "application/json",
			body:        `{"candidate":{"name":"Jordan Wu","totalScore":82},"job":{"title":"SRE"}}`,
			wantStatus:  http.StatusBadRequest,
		},
	}

	om := testObservability(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := s.createExportHandler(om, tt.kind)
			r := httptest.NewRequest(http.MethodPost, "/export/x", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			handler(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestExportHandlerRejectsGet(t *testing.T) {
	s := testServer(t, nil)
	handler := s.createExportHandler(testObservability(t), types.KindGuide)

	r := httptest.NewRequest(http.MethodGet, "/export/guide", nil)
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestWriteExportErrorMapsCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "export in flight",
			err:        errors.NewValidationError(errors.ErrCodeExportInFlight, "busy", nil),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "empty document",
			err:        errors.NewValidationError(errors.ErrCodeEmptyDocument, "nothing to export", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid request",
			err:        errors.NewValidationError(errors.ErrCodeInvalidRequest, "bad input", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "raster failure",
			err:        errors.NewRasterError(errors.ErrCodeRasterFailed, "encode failed", nil),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeExportError(w, tt.err)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		header     map[string]string
		wantStatus int
	}{
		{
			name:       "no keys configured skips auth",
			keys:       nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid X-API-Key",
			keys:       []string{"secret-key-12345"},
			header:     map[string]string{"X-API-Key": "secret-key-12345"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			keys:       []string{"secret-key-12345"},
			header:     map[string]string{"Authorization": "Bearer secret-key-12345"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key",
			keys:       []string{"secret-key-12345"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong key",
			keys:       []string{"secret-key-12345"},
			header:     map[string]string{"X-API-Key": "wrong"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t, tt.keys)
			handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodPost, "/export/guide", nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			handler(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	s := testServer(t, nil)
	s.MaxRequestSize = 32

	handler := s.requestSizeLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		var v map[string]any
		if err := parseJSONRequest(r, &v); err != nil {
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	big := `{"candidate":{"name":"` + strings.Repeat("x", 100) + `"}}`
	r := httptest.NewRequest(http.MethodPost, "/export/guide", strings.NewReader(big))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "too large") {
		t.Errorf("body = %s, want size limit message", w.Body.String())
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		byAPIKey bool
		byIP     bool
		header   map[string]string
		remote   string
		want     string
	}{
		{
			name:     "api key preferred",
			byAPIKey: true,
			byIP:     true,
			header:   map[string]string{"X-API-Key": "abc"},
			remote:   "10.0.0.1:1234",
			want:     "api:abc",
		},
		{
			name:     "bearer token",
			byAPIKey: true,
			header:   map[string]string{"Authorization": "Bearer tok"},
			want:     "api:tok",
		},
		{
			name:   "by ip from remote addr",
			byIP:   true,
			remote: "10.0.0.1:1234",
			want:   "ip:10.0.0.1",
		},
		{
			name:   "by ip from forwarded header",
			byIP:   true,
			header: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			remote: "10.0.0.1:1234",
			want:   "ip:203.0.113.9",
		},
		{
			name: "nothing enabled",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := getRateLimitKey(r, tt.byAPIKey, tt.byIP); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFirstIP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"203.0.113.9", "203.0.113.9"},
		{"203.0.113.9, 10.0.0.1", "203.0.113.9"},
		{"garbage, 10.0.0.1", "10.0.0.1"},
		{"garbage", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := parseFirstIP(tt.input); got != tt.want {
			t.Errorf("parseFirstIP(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	rl := NewRateLimiter(60, 0, 2, logger)
	defer rl.Close()

	if !rl.Allow("ip:10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if !rl.Allow("ip:10.0.0.1") {
		t.Fatal("second request should fit in burst")
	}
	if rl.Allow("ip:10.0.0.1") {
		t.Error("third immediate request should exceed burst capacity")
	}
	if !rl.Allow("ip:10.0.0.2") {
		t.Error("different keys get independent limiters")
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	s := testServer(t, nil)
	s.RateLimit = &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 60,
		BurstCapacity:  1,
		ByIP:           true,
	}
	s.RateLimiter = NewRateLimiter(s.RateLimit.RequestsPerMin, 0, s.RateLimit.BurstCapacity, s.Logger)
	defer s.RateLimiter.Close()

	handler := s.createRateLimitMiddleware(testObservability(t))(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/export/guide", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	w := httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	s := testServer(t, nil)
	s.AppConfig = &config.Config{}

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.healthHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if body["service"] != "hirescan" {
		t.Errorf("service = %v, want hirescan", body["service"])
	}
}

func TestStatsHandler(t *testing.T) {
	s := testServer(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	s.statsHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal stats response: %v", err)
	}
	if body["service"] != "hirescan" {
		t.Errorf("service = %v, want hirescan", body["service"])
	}
	if _, ok := body["rate_limiting"]; !ok {
		t.Error("missing rate_limiting section")
	}
}

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     []string
	}{
		{
			name:     "ascii name used directly",
			fileName: "Evaluation_Platform Engineer_Jordan Wu_82.pdf",
			want: []string{
				`filename="Evaluation_Platform Engineer_Jordan Wu_82.pdf"`,
				"filename*=UTF-8''",
			},
		},
		{
			name:     "non-ascii name gets escaped variant",
			fileName: "测评报告_平台工程师_吴静_90.pdf",
			want: []string{
				"filename*=UTF-8''%E6%B5%8B",
				`filename="`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contentDisposition(tt.fileName)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("contentDisposition(%q) = %q, missing %q", tt.fileName, got, w)
				}
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("maskAPIKey(short) = %q", got)
	}
	if got := maskAPIKey("secret-key-12345"); got != "secret-k****" {
		t.Errorf("maskAPIKey(long) = %q", got)
	}
}

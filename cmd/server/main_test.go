package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/auth"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/config"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/dailysync"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/reference"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/scheduler"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/storage"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/upstreamsim"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/websocket"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("expected status ok, got %s", response["status"])
	}
	if response["service"] != serviceName {
		t.Errorf("expected service %s, got %s", serviceName, response["service"])
	}
}

func TestHealthHandlerMethods(t *testing.T) {
	tests := []struct {
		method         string
		expectedStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusOK},    // Handler doesn't check method
		{http.MethodOptions, http.StatusOK}, // Handler doesn't check method
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			rec := httptest.NewRecorder()

			healthHandler(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

// newTestRouter wires the real handlers against the upstream simulator
func newTestRouter(t *testing.T, authEnabled bool) http.Handler {
	t.Helper()
	logger := zerolog.New(&bytes.Buffer{})

	sim := httptest.NewServer(upstreamsim.New(upstreamsim.Options{AuthToken: "token", Seed: 3}, logger).Handler())
	t.Cleanup(sim.Close)

	cfg := &config.Config{
		AllowedOrigins:        []string{"http://localhost:5173"},
		Environment:           "development",
		CallLogPageLimit:      200,
		MaxCallLogs:           50000,
		ModalLogLimit:         50,
		LeadLookupConcurrency: 4,
		SyncEnabled:           true,
		PongWait:              time.Minute,
		PingPeriod:            54 * time.Second,
		WriteWait:             10 * time.Second,
		MaxMessageSize:        512,
	}

	client := convoso.NewClient(convoso.Options{BaseURL: sim.URL, AuthToken: "token"}, logger)
	store := &storage.NoopStore{}
	hub := websocket.NewHub(logger)
	go hub.Run()

	syncer := dailysync.New(client, store, hub, dailysync.Options{}, logger)
	sched, err := scheduler.New(syncer, "0 3 * * *", "America/New_York", logger)
	if err != nil {
		t.Fatalf("failed to create scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return newRouter(ctx, routerDeps{
		cfg:       cfg,
		tables:    reference.Defaults(),
		upstream:  client,
		store:     store,
		hub:       hub,
		scheduler: sched,
		auth:      auth.New(auth.Config{Enabled: authEnabled}, logger),
		logger:    logger,
	})
}

// allCodes lists every default disposition so the generated agent always has matching calls
func allCodes() string {
	codes := make([]string, 0, len(reference.Defaults().Dispositions))
	for _, d := range reference.Defaults().Dispositions {
		codes = append(codes, d.Code)
	}
	return strings.Join(codes, ",")
}

func TestRouterEndToEnd(t *testing.T) {
	router := newTestRouter(t, false)
	codes := allCodes()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, `"status":"ok"`},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, "dashboard_"},
		{"status", http.MethodGet, "/status", "", http.StatusOK, `"database":"disabled"`},
		{"agents", http.MethodGet, "/agents", "", http.StatusOK, `"Alex Longakit"`},
		{"dispositions", http.MethodGet, "/dispositions", "", http.StatusOK, `"MQAPP"`},
		{"campaigns", http.MethodGet, "/campaigns", "", http.StatusOK, `"campaign_name":"Aged Leads"`},
		{"leaderboard", http.MethodGet, "/leaderboard", "", http.StatusOK, `[]`},
		{"performance", http.MethodGet, "/agents/1229376/performance", "", http.StatusOK, `[]`},
		{
			name:       "summary",
			method:     http.MethodPost,
			path:       "/call-log-summary",
			body:       `{"startDate":"2025-03-01","endDate":"2025-03-01","dispositionCodes":"` + codes + `","agentIds":"1229376"}`,
			wantStatus: http.StatusOK,
			wantBody:   `"id":"1229376"`,
		},
		{
			name:       "summary missing fields",
			method:     http.MethodPost,
			path:       "/call-log-summary",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "at least one disposition code",
		},
		{
			name:       "details",
			method:     http.MethodPost,
			path:       "/call-log-details",
			body:       `{"startDate":"2025-03-01","endDate":"2025-03-01","agentId":"1229376","dispositionCodes":"` + codes + `"}`,
			wantStatus: http.StatusOK,
			wantBody:   `"agent_name":"Alex Longakit"`,
		},
		{"admin sync bad date", http.MethodPost, "/admin/sync?date=tomorrow", "", http.StatusBadRequest, "Invalid date"},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %s, got %s", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRouterSummaryCountsMatchDetails(t *testing.T) {
	router := newTestRouter(t, false)
	codes := allCodes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/call-log-summary",
		strings.NewReader(`{"startDate":"2025-03-01","endDate":"2025-03-01","dispositionCodes":"`+codes+`","agentIds":"1229376"}`)))

	var summaries []types.AgentSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("failed to parse summary: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one agent, got %d", len(summaries))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/call-log-details",
		strings.NewReader(`{"startDate":"2025-03-01","endDate":"2025-03-01","agentId":"1229376","dispositionCodes":"`+codes+`"}`)))

	var details []types.CallDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
		t.Fatalf("failed to parse details: %v", err)
	}
	if want := min(summaries[0].TotalCalls, 50); len(details) != want {
		t.Errorf("expected %d detail rows, got %d", want, len(details))
	}
}

func TestRouterRequiresTokenWhenAuthEnabled(t *testing.T) {
	router := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agents", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}

	for _, path := range []string{"/health", "/status", "/metrics"} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected %s to stay public, got %d", path, rec.Code)
		}
	}
}

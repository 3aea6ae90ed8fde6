// Package upstreamsim is a deterministic stand-in for the call-center API. It
// serves the call log, lead, user activity and campaign endpoints from data
// generated per day, so the dashboard can run without real credentials.
package upstreamsim

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/reference"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"

	leadBase = 500_000

	// maxRangeDays bounds how many days one log search may generate
	maxRangeDays = 92
)

// Options configures a Server
type Options struct {
	AuthToken     string
	Seed          int64
	CallsPerAgent int
	Leads         int
	Agents        []types.AgentRef
	Dispositions  []types.Disposition
}

// Server serves the simulated upstream endpoints
type Server struct {
	opts   Options
	now    func() time.Time
	logger zerolog.Logger

	mu   sync.Mutex
	days map[string][]simCall
}

// New creates a Server. Agents and dispositions default to the reference
// tables.
func New(opts Options, logger zerolog.Logger) *Server {
	defaults := reference.Defaults()
	if len(opts.Agents) == 0 {
		opts.Agents = defaults.Agents
	}
	if len(opts.Dispositions) == 0 {
		opts.Dispositions = defaults.Dispositions
	}
	if opts.CallsPerAgent <= 0 {
		opts.CallsPerAgent = 40
	}
	if opts.Leads <= 0 {
		opts.Leads = 5000
	}

	return &Server{
		opts:   opts,
		now:    time.Now,
		logger: logger.With().Str("component", "upstreamsim").Logger(),
		days:   make(map[string][]simCall),
	}
}

// Handler returns the simulator's routes
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.SetupRoutes(router)
	return router
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/health", s.healthHandler).Methods("GET")
	router.HandleFunc(convoso.EndpointCallLogs, s.authorized(s.callLogsHandler)).Methods("POST")
	router.HandleFunc(convoso.EndpointLeadSearch, s.authorized(s.leadSearchHandler)).Methods("POST")
	router.HandleFunc(convoso.EndpointUserActivity, s.authorized(s.userActivityHandler)).Methods("POST")
	router.HandleFunc(convoso.EndpointCampaigns, s.authorized(s.campaignsHandler)).Methods("GET")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status": "healthy",
		"time":   s.now().Format(time.RFC3339),
	})
}

// authorized parses the form and rejects a wrong auth_token the way the real
// API does: HTTP 200 with success false
func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		if s.opts.AuthToken != "" && r.Form.Get("auth_token") != s.opts.AuthToken {
			writeJSON(w, map[string]any{"success": false, "code": 401, "message": "Invalid auth token"})
			return
		}
		next(w, r)
	}
}

func (s *Server) callLogsHandler(w http.ResponseWriter, r *http.Request) {
	offset := formInt(r, "offset", 0)
	limit := formInt(r, "limit", 10)
	userID := r.Form.Get("user_id")
	statuses := statusSet(r.Form.Get("status"))

	from, to := s.window(r.Form.Get("start_time"), r.Form.Get("end_time"))

	var matched []simCall
	for day := truncateDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, c := range s.callsFor(day) {
			if c.CallDate.Before(from) || c.CallDate.After(to) {
				continue
			}
			if userID != "" && c.UserID != userID {
				continue
			}
			if statuses != nil && !statuses[c.Status] {
				continue
			}
			matched = append(matched, c)
		}
	}

	start := min(max(offset, 0), len(matched))
	end := min(start+max(limit, 0), len(matched))
	results := make([]map[string]any, 0, end-start)
	for i := start; i < end; i++ {
		results = append(results, matched[i].wire())
	}

	s.logger.Debug().
		Int("offset", offset).
		Int("limit", limit).
		Int("total_found", len(matched)).
		Msg("call log search")

	writeJSON(w, map[string]any{
		"success": true,
		"data": map[string]any{
			"offset":      offset,
			"limit":       limit,
			"total_found": strconv.Itoa(len(matched)),
			"results":     results,
		},
	})
}

func (s *Server) leadSearchHandler(w http.ResponseWriter, r *http.Request) {
	entries := []map[string]any{}

	id, err := strconv.ParseInt(r.Form.Get("lead_id"), 10, 64)
	if err == nil && id >= leadBase && id < leadBase+int64(s.opts.Leads) {
		lead := s.lead(id)
		entries = append(entries, lead.wire())
	}

	writeJSON(w, map[string]any{
		"success": true,
		"data":    map[string]any{"total": len(entries), "entries": entries},
	})
}

// userActivityHandler summarizes yesterday's calls per agent
func (s *Server) userActivityHandler(w http.ResponseWriter, r *http.Request) {
	statuses := statusSet(r.Form.Get("status"))
	from, to := s.activityWindow(r.Form.Get("start_date"), r.Form.Get("end_date"))

	type totals struct {
		name, email                    string
		calls, talk, pause, wait, wrap int
	}
	byAgent := make(map[string]*totals)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, c := range s.callsFor(day) {
			if statuses != nil && !statuses[c.Status] {
				continue
			}
			t, ok := byAgent[c.UserID]
			if !ok {
				t = &totals{name: c.User, email: agentEmail(c.User)}
				byAgent[c.UserID] = t
			}
			t.calls++
			t.talk += c.CallLength
			t.pause += c.Pause
			t.wait += c.Wait
			t.wrap += c.Wrap
		}
	}

	data := make(map[string]any, len(byAgent))
	for id, t := range byAgent {
		data[id] = map[string]any{
			"name":      t.name,
			"email":     t.email,
			"calls":     strconv.Itoa(t.calls),
			"talk_sec":  hms(t.talk),
			"pause_sec": hms(t.pause),
			"wait_sec":  hms(t.wait),
			"wrap_sec":  hms(t.wrap),
		}
	}

	// An empty summary comes back as an array upstream
	var payload any = data
	if len(data) == 0 {
		payload = []any{}
	}
	writeJSON(w, map[string]any{"success": true, "data": payload})
}

func (s *Server) campaignsHandler(w http.ResponseWriter, r *http.Request) {
	names := []string{"Outbound MCA", "Inbound Funding", "Renewals", "Aged Leads", "Web Forms"}

	limit := formInt(r, "limit", len(names))
	data := make([]map[string]any, 0, len(names))
	for i, name := range names {
		if i >= limit {
			break
		}
		data = append(data, map[string]any{"id": 100 + i, "name": name, "status": "Active"})
	}
	writeJSON(w, map[string]any{"success": true, "data": data})
}

// callsFor returns the cached calls of day, generating them on first use
func (s *Server) callsFor(day time.Time) []simCall {
	key := day.Format(dateLayout)

	s.mu.Lock()
	defer s.mu.Unlock()
	if calls, ok := s.days[key]; ok {
		return calls
	}
	calls := s.generateDay(day)
	sort.Slice(calls, func(i, j int) bool { return calls[i].CallDate.Before(calls[j].CallDate) })
	s.days[key] = calls
	return calls
}

// window parses the search range. Missing bounds default to today; the range
// is clamped to maxRangeDays.
func (s *Server) window(startTime, endTime string) (time.Time, time.Time) {
	today := truncateDay(s.now().UTC())

	from, err := time.Parse(dateTimeLayout, startTime)
	if err != nil {
		from = today
	}
	to, err := time.Parse(dateTimeLayout, endTime)
	if err != nil {
		to = today.Add(24*time.Hour - time.Second)
	}
	if limit := from.AddDate(0, 0, maxRangeDays); to.After(limit) {
		to = limit
	}
	return from, to
}

// activityWindow resolves the inclusive day range of an activity search.
// Missing dates default to yesterday (UTC).
func (s *Server) activityWindow(startDate, endDate string) (time.Time, time.Time) {
	yesterday := truncateDay(s.now().UTC()).AddDate(0, 0, -1)

	from, err := time.Parse(dateLayout, startDate)
	if err != nil {
		from = yesterday
	}
	to, err := time.Parse(dateLayout, endDate)
	if err != nil {
		to = from
	}
	if limit := from.AddDate(0, 0, maxRangeDays); to.After(limit) {
		to = limit
	}
	return from, to
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func statusSet(csv string) map[string]bool {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, code := range strings.Split(csv, ",") {
		if code = strings.TrimSpace(code); code != "" {
			set[code] = true
		}
	}
	return set
}

func formInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.Form.Get(key))
	if err != nil {
		return def
	}
	return n
}

func agentEmail(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@sim.local"
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// Package convoso is a thin client for the Convoso call-center API.
package convoso

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/metrics"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// Upstream endpoint paths
const (
	EndpointCallLogs     = "/v1/log/retrieve"
	EndpointLeadSearch   = "/v1/leads/search"
	EndpointUserActivity = "/v1/user-activity/search"
	EndpointCampaigns    = "/v1/campaigns/search"
)

// DefaultPageLimit is the call log page size used when a query leaves Limit unset
const DefaultPageLimit = 500

// Options configures a Client
type Options struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
	PageLimit int
}

// Client talks to the upstream API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	authToken  string
	pageLimit  int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new upstream client
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	pageLimit := opts.PageLimit
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		authToken: opts.AuthToken,
		pageLimit: pageLimit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "convoso").Logger(),
	}
}

// PageLimit returns the configured call log page size
func (c *Client) PageLimit() int {
	return c.pageLimit
}

// CallLogQuery filters a call log search. Times use the upstream
// "YYYY-MM-DD HH:MM:SS" format; Status is a comma-separated code list.
type CallLogQuery struct {
	StartTime string
	EndTime   string
	UserID    string
	Status    string
	Offset    int
	Limit     int
}

// CallLogPage is one page of call log results
type CallLogPage struct {
	Records    []types.CallLogRecord
	TotalFound int
}

type envelope struct {
	Success types.FlexString `json:"success"`
	Code    types.FlexString `json:"code"`
	Message types.FlexString `json:"message"`
	Error   types.FlexString `json:"error"`
	Data    json.RawMessage  `json:"data"`
}

func (e *envelope) ok() bool {
	return e.Success == "true" || e.Success == "1"
}

// FetchCallLogsPage fetches one page of the call log search
func (c *Client) FetchCallLogsPage(ctx context.Context, q CallLogQuery) (*CallLogPage, error) {
	limit := q.Limit
	if limit == 0 {
		limit = c.pageLimit
	}

	form := url.Values{}
	form.Set("offset", strconv.Itoa(q.Offset))
	form.Set("limit", strconv.Itoa(limit))
	form.Set("include_recordings", "1")
	form.Set("start_time", q.StartTime)
	form.Set("end_time", q.EndTime)
	form.Set("user_id", q.UserID)
	form.Set("status", q.Status)

	env, err := c.post(ctx, EndpointCallLogs, form)
	if err != nil {
		return nil, err
	}

	var data struct {
		Results    []types.CallLogRecord `json:"results"`
		TotalFound types.FlexString      `json:"total_found"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: decode call log page: %w", ErrUpstream, err)
		}
	}

	if len(data.Results) > limit {
		c.logger.Warn().
			Int("offset", q.Offset).
			Int("limit", limit).
			Int("received", len(data.Results)).
			Msg("call log page larger than requested limit")
	}

	c.logger.Debug().
		Int("offset", q.Offset).
		Int("records", len(data.Results)).
		Str("total_found", data.TotalFound.String()).
		Msg("fetched call log page")

	return &CallLogPage{
		Records:    data.Results,
		TotalFound: data.TotalFound.Int(),
	}, nil
}

// SearchLead returns the lead with the given id, or ErrLeadNotFound
func (c *Client) SearchLead(ctx context.Context, leadID string) (*types.LeadRecord, error) {
	if leadID == "" {
		return nil, ErrLeadNotFound
	}

	form := url.Values{}
	form.Set("lead_id", leadID)
	form.Set("limit", "1")

	env, err := c.post(ctx, EndpointLeadSearch, form)
	if err != nil {
		return nil, err
	}

	var data struct {
		Entries []types.LeadRecord `json:"entries"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: decode lead %s: %w", ErrUpstream, leadID, err)
		}
	}
	if len(data.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLeadNotFound, leadID)
	}
	return &data.Entries[0], nil
}

// ActivityQuery filters the user activity search. Dates use YYYY-MM-DD and
// bound the window inclusively; left empty, the upstream picks its default
// window. StatusIDs, when set, restricts the call counts to those codes.
type ActivityQuery struct {
	StartDate string
	EndDate   string
	StatusIDs string
}

// UserActivity fetches the per-agent activity summary
func (c *Client) UserActivity(ctx context.Context, q ActivityQuery) (types.ActivitySummary, error) {
	form := url.Values{}
	if q.StartDate != "" {
		form.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		form.Set("end_date", q.EndDate)
	}
	if q.StatusIDs != "" {
		form.Set("status", q.StatusIDs)
	}

	env, err := c.post(ctx, EndpointUserActivity, form)
	if err != nil {
		return nil, err
	}

	summary := make(types.ActivitySummary)

	// An empty result may come back as [] instead of {}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		return summary, nil
	}

	for userID, raw := range entries {
		var activity types.AgentActivity
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		if err := json.Unmarshal(raw, &activity); err != nil {
			c.logger.Warn().Err(err).Str("agent_id", userID).Msg("skipping malformed activity entry")
			continue
		}
		summary[userID] = activity
	}
	return summary, nil
}

// Campaigns lists the upstream campaigns sorted by name
func (c *Client) Campaigns(ctx context.Context) ([]types.Campaign, error) {
	query := url.Values{}
	query.Set("limit", "1000")

	env, err := c.get(ctx, EndpointCampaigns, query)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return nil, fmt.Errorf("%w: invalid campaign data format: %w", ErrUpstream, err)
		}
	}

	campaigns := make([]types.Campaign, 0, len(raw))
	for _, item := range raw {
		var entry struct {
			ID   *types.FlexString `json:"id"`
			Name *types.FlexString `json:"name"`
		}
		if err := json.Unmarshal(item, &entry); err != nil || entry.ID == nil || entry.Name == nil {
			continue
		}
		campaigns = append(campaigns, types.Campaign{
			ID:   entry.ID.String(),
			Name: entry.Name.String(),
		})
	}

	sort.SliceStable(campaigns, func(i, j int) bool {
		return strings.ToLower(campaigns[i].Name) < strings.ToLower(campaigns[j].Name)
	})
	return campaigns, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) (*envelope, error) {
	form.Set("auth_token", c.authToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, endpoint)
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (*envelope, error) {
	query.Set("auth_token", c.authToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req, endpoint)
}

func (c *Client) do(req *http.Request, endpoint string) (env *envelope, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordUpstreamCall(endpoint, err, time.Since(start))
		if err != nil {
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("upstream request failed")
		}
	}()

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s returned status %d: %s", ErrUpstream, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	env = &envelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %w", ErrUpstream, endpoint, err)
	}

	if !env.ok() {
		msg := env.Message.String()
		if msg == "" {
			msg = env.Error.String()
		}
		return nil, &APIError{Endpoint: endpoint, Code: env.Code.String(), Message: msg}
	}
	return env, nil
}

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

type fakeLeads struct {
	mu       sync.Mutex
	leads    map[string]*types.LeadRecord
	fail     map[string]bool
	requests map[string]int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeLeads) SearchLead(_ context.Context, id string) (*types.LeadRecord, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.requests == nil {
		f.requests = map[string]int{}
	}
	f.requests[id]++

	if f.fail[id] {
		return nil, errors.New("timeout")
	}
	lead, ok := f.leads[id]
	if !ok {
		return nil, convoso.ErrLeadNotFound
	}
	return lead, nil
}

func newEnricher(leads LeadSearcher, concurrency int) *Enricher {
	return New(leads, concurrency, zerolog.New(&bytes.Buffer{}))
}

func TestEnrichPreservesOrderAndIsolatesFailures(t *testing.T) {
	leads := &fakeLeads{
		leads: map[string]*types.LeadRecord{
			"L1": {ID: "L1", FirstName: "Dana", Email: "dana@example.com", Custom: map[string]string{"field_4": "Acme"}},
			"L3": {ID: "L3", LastName: "Reyes"},
		},
		fail: map[string]bool{"L2": true},
	}
	records := []types.CallLogRecord{
		{ID: "c1", LeadID: "L1"},
		{ID: "c2", LeadID: "L2", FirstName: "FromCall"},
		{ID: "c3", LeadID: "L1"},
		{ID: "c4", LeadID: "L3"},
		{ID: "c5"},
		{ID: "c6", LeadID: "L404"},
	}

	details := newEnricher(leads, 2).Enrich(context.Background(), records)

	require.Len(t, details, len(records))
	for i, d := range details {
		assert.Equal(t, records[i].ID.String(), d.CallLogID)
	}

	assert.Equal(t, "Dana", details[0].FirstName)
	assert.Equal(t, "dana@example.com", details[0].Email)
	require.NotNil(t, details[0].CompanyName)
	assert.Equal(t, "Acme", *details[0].CompanyName)

	assert.Equal(t, "FromCall", details[1].FirstName, "failed lookup falls back to call fields")
	assert.Equal(t, NotAvailable, details[1].Email)
	assert.Equal(t, "L2", details[1].LeadID)

	assert.Equal(t, "Reyes", details[3].LastName)
	assert.Equal(t, NotAvailable, details[4].LeadID)
	assert.Equal(t, "L404", details[5].LeadID)

	assert.Equal(t, 1, leads.requests["L1"], "duplicate lead ids are fetched once")
	assert.NotContains(t, leads.requests, "")
	assert.Len(t, leads.requests, 4)
}

func TestEnrichConcurrencyLimit(t *testing.T) {
	leads := &fakeLeads{leads: map[string]*types.LeadRecord{}}
	var records []types.CallLogRecord
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		records = append(records, types.CallLogRecord{LeadID: types.FlexString(id)})
	}

	newEnricher(leads, 3).Enrich(context.Background(), records)

	assert.LessOrEqual(t, leads.maxInFlight.Load(), int32(3))
	assert.Len(t, leads.requests, 8)
}

func TestJoinWithoutLead(t *testing.T) {
	rec := &types.CallLogRecord{
		ID:           "901",
		LeadID:       "55",
		ListID:       "7",
		Status:       "MQAPP",
		CallLength:   "93",
		CallDate:     "2025-03-01 10:00:00",
		PhoneNumber:  "5550100",
		AgentComment: "call back",
		Recording:    types.Recordings{{Src: "https://rec/src"}},
	}

	d := Join(rec, nil)

	assert.Equal(t, "901", d.CallLogID)
	require.NotNil(t, d.CallDate)
	assert.Equal(t, "2025-03-01 10:00:00", *d.CallDate)
	assert.Equal(t, 93, d.CallLength)
	assert.Equal(t, "MQAPP", d.DispositionCode)
	assert.Equal(t, "MQAPP", d.DispositionName, "name falls back to the code")
	assert.Equal(t, NotAvailable, d.AgentName)
	assert.Equal(t, "call back", d.AgentComment)
	require.NotNil(t, d.RecordingURL)
	assert.Equal(t, "https://rec/src", *d.RecordingURL)
	assert.Equal(t, NotAvailable, d.CallType)
	assert.Equal(t, "55", d.LeadID)
	assert.Equal(t, "7", d.LeadListID)
	assert.Equal(t, "5550100", d.PhoneNumber)
	assert.Equal(t, NotAvailable, d.LeadListName)
	assert.Nil(t, d.LeadCreatedAt)
	assert.Nil(t, d.LeadLastCalled)
	assert.Equal(t, "", d.FirstName)
	assert.Nil(t, d.CompanyName)
}

func TestJoinEmptyRecordJSON(t *testing.T) {
	d := Join(&types.CallLogRecord{}, nil)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "N/A", out["call_log_id"])
	assert.Equal(t, float64(0), out["call_length"])
	assert.Nil(t, out["call_date"])
	assert.Contains(t, out, "recording_url", "nullable fields are always present")
	assert.Equal(t, "", out["agent_comment"])
	assert.NotContains(t, out, "company_name", "absent custom fields are omitted")
}

func TestJoinPrefersLeadValues(t *testing.T) {
	rec := &types.CallLogRecord{LeadID: "55", PhoneNumber: "111", FirstName: "Call"}
	lead := &types.LeadRecord{
		ID:                 "55",
		PhoneNumber:        "222",
		FirstName:          "Lead",
		CreatedAt:          "2024-01-01",
		DirectoryName:      "Spring List",
		LastModifiedByName: "Admin",
		Custom: map[string]string{
			"field_94":  "50000",
			"field_601": "Expansion",
			"field_29":  "Retail",
		},
	}

	d := Join(rec, lead)

	assert.Equal(t, "222", d.PhoneNumber)
	assert.Equal(t, "Lead", d.FirstName)
	require.NotNil(t, d.LeadCreatedAt)
	assert.Equal(t, "2024-01-01", *d.LeadCreatedAt)
	assert.Equal(t, "Spring List", d.LeadListName)
	assert.Equal(t, "Admin", d.LeadLastModifiedBy)
	require.NotNil(t, d.MonthlyRevenue)
	assert.Equal(t, "50000", *d.MonthlyRevenue)
	require.NotNil(t, d.UseOfFunds)
	assert.Equal(t, "Expansion", *d.UseOfFunds)
	require.NotNil(t, d.MainIndustry)
	assert.Equal(t, "Retail", *d.MainIndustry)
	assert.Nil(t, d.SSN)
}

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

func call(userID, user, status, statusName string) types.CallLogRecord {
	return types.CallLogRecord{
		UserID:     types.FlexString(userID),
		User:       types.FlexString(user),
		Status:     types.FlexString(status),
		StatusName: types.FlexString(statusName),
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"blanks only", " , ,", nil},
		{"single", "1229376", []string{"1229376"}},
		{"trims and skips blanks", " 1, ,2 ,3,", []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIDList(tt.input))
		})
	}
}

func TestFilterByAgents(t *testing.T) {
	records := []types.CallLogRecord{
		call("1", "A", "X", ""),
		call("2", "B", "X", ""),
		call("3", "C", "X", ""),
		call("", "", "X", ""),
	}

	assert.Len(t, FilterByAgents(records, nil), 4)

	filtered := FilterByAgents(records, []string{"1", "3", "99"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].UserID.String())
	assert.Equal(t, "3", filtered[1].UserID.String())
}

func TestSummarize(t *testing.T) {
	records := []types.CallLogRecord{
		call("1229376", "Alex Longakit", "MQAPP", "MQS - Qualified / Appointment Set"),
		call("1229376", "Renamed Later", "MQAPP", "Other Label"),
		call("1229376", "Alex Longakit", "A", ""),
		call("1229376", "Alex Longakit", "", ""),
		call("1229373", "", "QLSENT", "Money Now"),
		call("", "Ghost", "MQAPP", "x"),
	}

	summaries := Summarize(records)
	require.Len(t, summaries, 2)

	alex := summaries["1229376"]
	require.NotNil(t, alex)
	assert.Equal(t, "Alex Longakit", alex.Name)
	assert.Equal(t, 4, alex.TotalCalls)
	require.Len(t, alex.Dispositions, 2)
	assert.Equal(t, &types.DispositionCount{Name: "MQS - Qualified / Appointment Set", Count: 2}, alex.Dispositions["MQAPP"])
	assert.Equal(t, &types.DispositionCount{Name: "A", Count: 1}, alex.Dispositions["A"])

	margaux := summaries["1229373"]
	require.NotNil(t, margaux)
	assert.Equal(t, UnknownAgentName, margaux.Name)
	assert.Equal(t, 1, margaux.TotalCalls)
}

func TestSummarizeTotalsMatchFilteredCounts(t *testing.T) {
	var records []types.CallLogRecord
	for i := 0; i < 7; i++ {
		records = append(records, call("1", "One", "A", "No Answer"))
	}
	for i := 0; i < 3; i++ {
		records = append(records, call("2", "Two", "BUSY", "Busy"))
	}

	summaries := Summarize(FilterByAgents(records, []string{"2"}))
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries["2"].TotalCalls)
	assert.Equal(t, 3, summaries["2"].Dispositions["BUSY"].Count)
}

func TestSorted(t *testing.T) {
	summaries := Summarize([]types.CallLogRecord{
		call("30", "C", "A", ""),
		call("10", "A", "A", ""),
		call("20", "B", "A", ""),
	})

	sorted := Sorted(summaries)
	require.Len(t, sorted, 3)
	assert.Equal(t, []string{"10", "20", "30"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Empty(t, Sorted(nil))
}

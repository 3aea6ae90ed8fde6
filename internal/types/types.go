package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes a JSON string, number or boolean into its textual form.
// The upstream API is inconsistent about quoting ids and counters, so every
// upstream scalar goes through this type. null, objects and arrays decode to "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '{', '[':
		*f = ""
	default:
		*f = FlexString(data)
	}
	return nil
}

// String returns the raw text
func (f FlexString) String() string {
	return string(f)
}

// Int parses the value as an integer, truncating decimals. Unparseable
// values return 0.
func (f FlexString) Int() int {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return 0
}

// AgentRef is one row of the agent roster
type AgentRef struct {
	ID   string `json:"id_convoso_agent" yaml:"id"`
	Name string `json:"name_convoso_agent" yaml:"name"`
}

// Disposition is one entry of the disposition list
type Disposition struct {
	Code string `json:"status_code_convoso" yaml:"code"`
	Name string `json:"status_name_convoso" yaml:"name"`
}

// Campaign is an upstream dialing campaign
type Campaign struct {
	ID   string `json:"campaign_id"`
	Name string `json:"campaign_name"`
}

package types

import (
	"bytes"
	"encoding/json"
)

// CallLogRecord is one call as returned by the upstream call log search
type CallLogRecord struct {
	ID           FlexString `json:"id"`
	LeadID       FlexString `json:"lead_id"`
	ListID       FlexString `json:"list_id"`
	CampaignID   FlexString `json:"campaign_id"`
	UserID       FlexString `json:"user_id"`
	User         FlexString `json:"user"`
	Status       FlexString `json:"status"`
	StatusName   FlexString `json:"status_name"`
	CallDate     FlexString `json:"call_date"`
	CallLength   FlexString `json:"call_length"`
	CallType     FlexString `json:"call_type"`
	NumberDialed FlexString `json:"number_dialed"`
	PhoneNumber  FlexString `json:"phone_number"`
	FirstName    FlexString `json:"first_name"`
	LastName     FlexString `json:"last_name"`
	AgentComment FlexString `json:"agent_comment"`
	Recording    Recordings `json:"recording,omitempty"`
}

// Recording references an audio file attached to a call
type Recording struct {
	PublicURL FlexString `json:"public_url,omitempty"`
	Src       FlexString `json:"src,omitempty"`
}

// Recordings tolerates the upstream sending a non-array recording value
type Recordings []Recording

// UnmarshalJSON implements json.Unmarshaler
func (r *Recordings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*r = nil
		return nil
	}

	var list []Recording
	if err := json.Unmarshal(data, &list); err != nil {
		*r = nil
		return nil
	}
	*r = list
	return nil
}

// URL returns the first recording's public URL, falling back to its source
func (r Recordings) URL() string {
	if len(r) == 0 {
		return ""
	}
	if r[0].PublicURL != "" {
		return r[0].PublicURL.String()
	}
	return r[0].Src.String()
}

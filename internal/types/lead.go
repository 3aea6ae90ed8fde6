package types

import (
	"encoding/json"
	"strings"
)

// LeadRecord is the detail view of a lead from the upstream lead search.
// Custom business fields (field_N) are kept in Custom.
type LeadRecord struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	Status             string
	StatusName         string
	UserID             string
	OwnerName          string
	ListID             string
	DirectoryName      string
	CreatedAt          string
	ModifiedAt         string
	LastCalled         string
	LastModifiedByName string
	Custom             map[string]string
}

// UnmarshalJSON implements json.Unmarshaler
func (l *LeadRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]FlexString
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = LeadRecord{
		ID:                 raw["id"].String(),
		FirstName:          raw["first_name"].String(),
		LastName:           raw["last_name"].String(),
		Email:              raw["email"].String(),
		PhoneNumber:        raw["phone_number"].String(),
		Status:             raw["status"].String(),
		StatusName:         raw["status_name"].String(),
		UserID:             raw["user_id"].String(),
		OwnerName:          raw["owner_name"].String(),
		ListID:             raw["list_id"].String(),
		DirectoryName:      raw["directory_name"].String(),
		CreatedAt:          raw["created_at"].String(),
		ModifiedAt:         raw["modified_at"].String(),
		LastCalled:         raw["last_called"].String(),
		LastModifiedByName: raw["last_modified_by_name"].String(),
		Custom:             make(map[string]string),
	}

	for key, value := range raw {
		if strings.HasPrefix(key, "field_") && value != "" {
			l.Custom[key] = value.String()
		}
	}
	return nil
}

// Field returns a custom field value, or "" when the lead does not carry it
func (l *LeadRecord) Field(name string) string {
	if l == nil || l.Custom == nil {
		return ""
	}
	return l.Custom[name]
}

package types

// CallDetail is one call joined with its lead, as shown in the detail modal.
// Nullable fields are pointers; custom business fields are omitted when the
// lead does not carry them.
type CallDetail struct {
	CallLogID       string  `json:"call_log_id"`
	CallDate        *string `json:"call_date"`
	CallLength      int     `json:"call_length"`
	DispositionCode string  `json:"disposition_code"`
	DispositionName string  `json:"disposition_name"`
	AgentName       string  `json:"agent_name"`
	AgentComment    string  `json:"agent_comment"`
	RecordingURL    *string `json:"recording_url"`
	CallType        string  `json:"call_type"`
	NumberDialed    string  `json:"number_dialed"`

	LeadID                 string  `json:"lead_id"`
	LeadCreatedAt          *string `json:"lead_created_at"`
	LeadModifiedAt         *string `json:"lead_modified_at"`
	FirstName              string  `json:"first_name"`
	LastName               string  `json:"last_name"`
	Email                  string  `json:"email"`
	LeadCurrentStatusCode  string  `json:"lead_current_status_code"`
	LeadCurrentStatusName  string  `json:"lead_current_status_name"`
	LeadUserID             string  `json:"lead_user_id"`
	LeadOwnerName          string  `json:"lead_owner_name"`
	LeadListID             string  `json:"lead_list_id"`
	LeadListName           string  `json:"lead_list_name"`
	PhoneNumber            string  `json:"phone_number"`
	LeadLastCalled         *string `json:"lead_last_called"`
	LeadLastModifiedBy     string  `json:"lead_last_modified_by"`

	CompanyName        *string `json:"company_name,omitempty"`
	MonthlyRevenue     *string `json:"monthly_revenue,omitempty"`
	RequestedFunding   *string `json:"requested_funding,omitempty"`
	Email2             *string `json:"email_2,omitempty"`
	OpenPositions      *string `json:"open_positions,omitempty"`
	CreditScore        *string `json:"credit_score,omitempty"`
	Liens              *string `json:"liens,omitempty"`
	UseOfFunds         *string `json:"use_of_funds,omitempty"`
	OffTheWallQ        *string `json:"off_the_wall_q,omitempty"`
	BusinessStartDate  *string `json:"business_start_date,omitempty"`
	Timeline           *string `json:"timeline,omitempty"`
	CompanyDescPrimary *string `json:"company_desc_primary,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	NIReasons          *string `json:"ni_reasons,omitempty"`
	BadLeadReason      *string `json:"bad_lead_reason,omitempty"`
	ApptDateTime       *string `json:"appt_date_time,omitempty"`
	FEIN               *string `json:"fein,omitempty"`
	HubspotID          *string `json:"hubspot_id,omitempty"`
	EmailDelivered     *string `json:"email_delivered,omitempty"`
	SSN                *string `json:"ssn,omitempty"`
	OwnershipPercent   *string `json:"ownership_percent,omitempty"`
	MainIndustry       *string `json:"main_industry,omitempty"`
}

package domain

// SessionStatus models the lookup/registration workflow states.
type SessionStatus string

const (
	StatusIdle      SessionStatus = "IDLE"
	StatusChecked   SessionStatus = "CHECKED"
	StatusInvalidID SessionStatus = "INVALID_ID"
)

// VerificationState is the operator-visible snapshot of the current session.
type VerificationState struct {
	Status             SessionStatus        `json:"status"`
	NationalID         string               `json:"national_id,omitempty"`
	FullName           string               `json:"full_name,omitempty"`
	PriorRecords       []DistributionRecord `json:"prior_records,omitempty"`
	EligibleProductIDs []string             `json:"eligible_product_ids,omitempty"`
	SelectedProductIDs []string             `json:"selected_product_ids,omitempty"`
}

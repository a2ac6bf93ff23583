package entity

import "time"

// PolicyVersion is one snapshot in a policy's append-only version history.
type PolicyVersion struct {
	ID           int64     `json:"id"`
	PolicyID     string    `json:"policyId"`
	Version      string    `json:"version"`
	DocumentURL  string    `json:"documentUrl"`
	DocumentName string    `json:"documentName"`
	Status       string    `json:"status"`
	Author       string    `json:"author,omitempty"`
	Changes      string    `json:"changes,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Policy is a versioned company policy document. The root Version,
// DocumentURL and DocumentName always mirror the single Current entry in
// VersionHistory.
type Policy struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Category     string     `json:"category,omitempty"`
	Description  string     `json:"description,omitempty"`
	Version      string     `json:"version"`
	DocumentURL  string     `json:"documentUrl"`
	DocumentName string     `json:"documentName"`
	Status       string     `json:"status"`
	CreatedBy    string     `json:"createdBy,omitempty"`
	ApprovedBy   string     `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`

	VersionHistory []PolicyVersion `json:"versionHistory,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CurrentVersion returns the single Current entry of the version history, or
// nil if none is loaded.
func (p *Policy) CurrentVersion() *PolicyVersion {
	for i := range p.VersionHistory {
		if p.VersionHistory[i].Status == PolicyVersionCurrent {
			return &p.VersionHistory[i]
		}
	}
	return nil
}

package models

import "time"

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// AuditAction constants represent actions to be logged.
const (
	AuditActionTimetableImport    = "TIMETABLE_IMPORT"
	AuditActionSubstitutionCreate = "SUBSTITUTION_CREATE"
	AuditActionSubstitutionUpdate = "SUBSTITUTION_UPDATE"
	AuditActionSubstitutionDelete = "SUBSTITUTION_DELETE"
	AuditActionMappingUpsert      = "TEACHER_MAPPING_UPSERT"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

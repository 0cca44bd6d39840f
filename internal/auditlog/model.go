package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Status values of an audit entry
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Actions recorded by the site
const (
	ActionSubmissionSaved    = "SUBMISSION_SAVED"
	ActionSubmissionFallback = "SUBMISSION_STORED_LOCALLY"
	ActionEventRegistration  = "EVENT_REGISTRATION"
	ActionAdminLogin         = "ADMIN_LOGIN"
	ActionSubmissionsExport  = "SUBMISSIONS_EXPORTED"
	ActionSubmissionsCleared = "SUBMISSIONS_CLEARED"
	ActionContentPublished   = "CONTENT_PUBLISHED"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string         `gorm:"size:255;index" json:"actor"`  // admin email, or "public"
	Target    string         `gorm:"size:100;index" json:"target"` // collection or section
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	Actor    string     `json:"actor"`
	Target   string     `json:"target"`
	Action   string     `json:"action"`
	Status   string     `json:"status"`
	FromDate *time.Time `json:"from_date"`
	ToDate   *time.Time `json:"to_date"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

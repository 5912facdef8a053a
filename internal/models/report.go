package models

import "time"

// ReportStatus defines the lifecycle state of a content report.
type ReportStatus string

const (
	// ReportStatusOpen indicates a report awaiting moderator review.
	ReportStatusOpen ReportStatus = "open"
	// ReportStatusResolved indicates a moderator acted on the report.
	ReportStatusResolved ReportStatus = "resolved"
	// ReportStatusDismissed indicates a moderator dismissed the report.
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Report is a user-filed complaint about a post or comment.
// Authors cannot report their own content.
type Report struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	TargetType VoteTarget   `gorm:"type:varchar(10);not null;index:idx_report_target" json:"target_type"`
	TargetID   uint         `gorm:"not null;index:idx_report_target" json:"target_id"`
	ReporterID uint         `gorm:"not null;index" json:"reporter_id"`
	Reporter   User         `gorm:"foreignKey:ReporterID" json:"reporter"`
	Reason     string       `gorm:"size:500;not null" json:"reason"`
	Status     ReportStatus `gorm:"type:varchar(12);not null;default:'open';index" json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

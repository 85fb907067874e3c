package models

import "time"

type EmailStatus string

const (
	StatusPending EmailStatus = "pending"
	StatusSent    EmailStatus = "sent"
	StatusFailed  EmailStatus = "failed"
)

const SummaryReportTemplate = "summary-report"

// EmailLogEntry is the append-only audit record written for each delivery
// attempt of a report.
type EmailLogEntry struct {
	RunID      string      `bson:"runId,omitempty" json:"run_id,omitempty"`
	Recipients []string    `bson:"recipients" json:"recipients"`
	Subject    string      `bson:"subject" json:"subject"`
	Content    string      `bson:"content" json:"content"`
	SentAt     time.Time   `bson:"sentAt" json:"sent_at"`
	Status     EmailStatus `bson:"status" json:"status"`
	TemplateID string      `bson:"templateId" json:"template_id"`
	Error      string      `bson:"error,omitempty" json:"error,omitempty"`
}

package events

import "time"

const (
	EmailRequestedTopic     = "leave.email.requested.v1"
	EmailRequestedEventType = "email_requested"
)

// Templates understood by the mailer.
const (
	TemplateVerifyEmail  = "verify_email"
	TemplateLeaveApplied = "leave_applied"
	TemplateLeaveStatus  = "leave_status"
)

type EmailRequestedEvent struct {
	EventType  string         `json:"event_type"`
	Template   string         `json:"template"`
	To         []string       `json:"to"`
	Subject    string         `json:"subject"`
	Data       map[string]any `json:"data"`
	OccurredAt time.Time      `json:"occurred_at"`
}

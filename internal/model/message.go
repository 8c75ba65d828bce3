package model

import "time"

// Message is an inbound SMS together with the template that explained it, if any.
type Message struct {
	CreatedAt         time.Time         `json:"created_at"`
	MatchedTemplateID *int64            `json:"matched_template_id,omitempty"`
	ExtractedFields   map[string]string `json:"extracted_fields,omitempty"`
	Reference         string            `json:"reference"`
	Text              string            `json:"text"`
	SenderHeader      string            `json:"sender_header"`
	ID                int64             `json:"id"`
	UserID            int64             `json:"user_id"`
}

// HasMatch reports whether a template was attached to the message.
func (m *Message) HasMatch() bool {
	return m.MatchedTemplateID != nil
}

// NotificationStatus is the state of an unmatched-message notification.
type NotificationStatus string

// Notification states.
const (
	NotificationPending  NotificationStatus = "PENDING"
	NotificationResolved NotificationStatus = "RESOLVED"
)

// Notification flags a message that no verified template could explain.
type Notification struct {
	CreatedAt    time.Time          `json:"created_at"`
	ResolvedAt   *time.Time         `json:"resolved_at,omitempty"`
	SmsText      string             `json:"sms_text"`
	SenderHeader string             `json:"sender_header"`
	Status       NotificationStatus `json:"status"`
	ID           int64              `json:"id"`
	MessageID    int64              `json:"message_id"`
	RequestedBy  int64              `json:"requested_by"`
}

// UnmatchedMessage is what the matcher hands off when no candidate explains a message.
type UnmatchedMessage struct {
	SenderHeader string
	Text         string
	MessageID    int64
	RequesterID  int64
}

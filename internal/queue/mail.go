// Package queue defines message payloads exchanged over the message broker.
package queue

// BulkMailJob is published when an admin sends a bulk email from the
// composer. It carries everything the mail consumer needs to deliver
// the message without querying the primary database.
type BulkMailJob struct {
	MessageID  string   `json:"message_id"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"`
	QueuedAt   string   `json:"queued_at"`
}

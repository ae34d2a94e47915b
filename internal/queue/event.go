// Package queue defines message payloads exchanged over the message
// broker and the background consumer that executes synchronization
// requests.
package queue

// SyncQueueName is the durable queue carrying one-shot sync requests.
const SyncQueueName = "sync.requested"

// SyncRequestedEvent is published when an operator triggers a one-shot
// re-sync from the console.  RequestID correlates the trigger with the
// audit row the consumer writes.
type SyncRequestedEvent struct {
	RequestID   string `json:"request_id"`
	RequestedBy string `json:"requested_by"`
	RequestedAt string `json:"requested_at"`
}

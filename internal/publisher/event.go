// Package publisher announces catalog reloads to other replicas.
package publisher

import (
	"context"
	"time"
)

// EventReload is the event attribute value carried by reload announcements.
const EventReload = "catalog.reload"

// Event describes one completed catalog reload.
type Event struct {
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	Entries     int       `json:"entries"`
	RequestID   string    `json:"request_id,omitempty"`
	At          time.Time `json:"at"`
}

// Publisher delivers reload events and returns the broker's message ID.
type Publisher interface {
	Publish(ctx context.Context, ev Event) (string, error)
}

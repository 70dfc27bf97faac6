package service

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Lifecycle event subjects published to NATS. The WebSocket hub
// subscribes to hms.event.> and pushes them to PMC dashboard clients.
const (
	EventBookingCreated      = "hms.event.booking.created"
	EventBookingApproved     = "hms.event.booking.approved"
	EventBookingRejected     = "hms.event.booking.rejected"
	EventBookingExpired      = "hms.event.booking.expired"
	EventComplaintFiled      = "hms.event.complaint.filed"
	EventComplaintResolved   = "hms.event.complaint.resolved"
	EventCollectionSubmitted = "hms.event.collection.submitted"
	EventCollectionVerified  = "hms.event.collection.verified"
)

// Event is the envelope published on every lifecycle transition
type Event struct {
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Notifier publishes lifecycle events. A nil NATS connection turns it
// into a no-op, which the tests rely on.
type Notifier struct {
	nc *nats.Conn
}

// NewNotifier creates a notifier over the given NATS connection
func NewNotifier(nc *nats.Conn) *Notifier {
	return &Notifier{nc: nc}
}

// Publish sends an event; failures are logged, never propagated, since
// notification is best-effort and must not fail the owning operation.
func (n *Notifier) Publish(subject string, data interface{}) {
	if n == nil || n.nc == nil {
		return
	}

	payload, err := json.Marshal(Event{
		Subject:   subject,
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		log.Printf("[Notifier] Failed to marshal event %s: %v", subject, err)
		return
	}

	if err := n.nc.Publish(subject, payload); err != nil {
		log.Printf("[Notifier] Failed to publish %s: %v", subject, err)
	}
}

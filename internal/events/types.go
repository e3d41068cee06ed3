package events

import "time"

// ProtocolVersion is bumped whenever the wire format changes incompatibly
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	EventLayoutChanged  EventType = "layout_changed"
	EventCatalogChanged EventType = "catalog_changed"
	EventPing           EventType = "ping"
	EventPong           EventType = "pong"
)

// Event represents a change notification
type Event struct {
	Type        EventType `json:"type"`
	DashboardID string    `json:"dashboard_id,omitempty"` // empty = affects every dashboard
	Timestamp   time.Time `json:"timestamp"`
	SequenceID  int64     `json:"sequence_id,omitempty"`
}

// SubscribeMessage is sent by clients to narrow the events they receive
type SubscribeMessage struct {
	DashboardID string `json:"dashboard_id,omitempty"` // empty = all dashboards
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Version   int               `json:"version"`
	Type      string            `json:"type"` // "event", "subscribe", "ack", "ping"
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}

// Matches reports whether an event is relevant to a dashboard subscription.
func (e Event) Matches(dashboardID string) bool {
	return dashboardID == "" || e.DashboardID == "" || e.DashboardID == dashboardID
}

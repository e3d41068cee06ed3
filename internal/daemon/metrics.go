package daemon

import (
	"sync/atomic"
	"time"

	"github.com/sparksai/dashlayout/internal/events"
)

// Metrics counts daemon traffic. Safe for concurrent use.
type Metrics struct {
	started time.Time

	sent     atomic.Int64
	received atomic.Int64
	dropped  atomic.Int64

	layoutBroadcasts  atomic.Int64
	catalogBroadcasts atomic.Int64
	lastSequence      atomic.Int64

	clients atomic.Int32
}

// NewMetrics starts the uptime clock
func NewMetrics() *Metrics {
	return &Metrics{started: time.Now()}
}

func (m *Metrics) countSent()     { m.sent.Add(1) }
func (m *Metrics) countReceived() { m.received.Add(1) }
func (m *Metrics) countDropped()  { m.dropped.Add(1) }

func (m *Metrics) setClients(n int) { m.clients.Store(int32(n)) }

// countBroadcast records a stamped event on its way out to subscribers
func (m *Metrics) countBroadcast(e events.Event) {
	switch e.Type {
	case events.EventCatalogChanged:
		m.catalogBroadcasts.Add(1)
	default:
		m.layoutBroadcasts.Add(1)
	}
	m.lastSequence.Store(e.SequenceID)
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	Clients           int32     `json:"clients"`
	EventsSent        int64     `json:"events_sent"`
	EventsReceived    int64     `json:"events_received"`
	EventsDropped     int64     `json:"events_dropped"`
	LayoutBroadcasts  int64     `json:"layout_broadcasts"`
	CatalogBroadcasts int64     `json:"catalog_broadcasts"`
	LastSequence      int64     `json:"last_sequence"`
	StartedAt         time.Time `json:"started_at"`
	Uptime            string    `json:"uptime"`
}

// Broadcasts is the number of events fanned out, of any kind
func (s Snapshot) Broadcasts() int64 {
	return s.LayoutBroadcasts + s.CatalogBroadcasts
}

// Snapshot reads every counter
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Clients:           m.clients.Load(),
		EventsSent:        m.sent.Load(),
		EventsReceived:    m.received.Load(),
		EventsDropped:     m.dropped.Load(),
		LayoutBroadcasts:  m.layoutBroadcasts.Load(),
		CatalogBroadcasts: m.catalogBroadcasts.Load(),
		LastSequence:      m.lastSequence.Load(),
		StartedAt:         m.started,
		Uptime:            time.Since(m.started).Round(time.Second).String(),
	}
}

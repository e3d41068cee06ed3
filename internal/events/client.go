package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DebounceEnv overrides the batching window in milliseconds
const DebounceEnv = "DASHLAYOUT_EVENT_DEBOUNCE_MS"

const defaultDebounce = 100 * time.Millisecond

// Client is a connection to the dashlayout daemon. It batches outgoing
// change notifications, receives broadcasts and reconnects on failure.
type Client struct {
	socketPath string
	conn       net.Conn
	encoder    *json.Encoder
	decoder    *json.Decoder
	mu         sync.Mutex

	// Batching configuration
	eventQueue   chan Event
	debounce     time.Duration
	closed       bool
	batcherStart sync.Once
	started      bool

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration

	currentDashboardID string
	lastSequence       int64

	ctx    context.Context
	cancel context.CancelFunc

	batcherDone chan struct{}
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithDebounce sets the batching window. Non-positive values are ignored.
func WithDebounce(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithReconnect sets how often and how patiently Listen reconnects.
func WithReconnect(maxRetries int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
	}
}

// NewClient creates a new event client but does not connect.
// The debounce window defaults to 100ms; DASHLAYOUT_EVENT_DEBOUNCE_MS
// takes precedence over options.
func NewClient(socketPath string, opts ...ClientOption) (*Client, error) {
	if socketPath == "" {
		return nil, errors.New("socket path is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		socketPath:  socketPath,
		eventQueue:  make(chan Event, 100),
		debounce:    defaultDebounce,
		maxRetries:  5,
		baseDelay:   time.Second,
		ctx:         ctx,
		cancel:      cancel,
		batcherDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if envVal := os.Getenv(DebounceEnv); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil && parsed > 0 {
			c.debounce = time.Duration(parsed) * time.Millisecond
		}
	}
	return c, nil
}

// Connect dials the daemon socket and re-sends the current subscription.
// The batching goroutine is started on the first successful connect.
func (c *Client) Connect(ctx context.Context) error {
	if c == nil {
		return ErrNotConnected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial daemon socket: %w", err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)

	msg := Message{
		Version:   ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{DashboardID: c.currentDashboardID},
	}
	if err := c.encoder.Encode(msg); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Debug("error closing connection", "error", closeErr)
		}
		c.conn = nil
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	c.batcherStart.Do(func() {
		c.started = true
		go c.startBatcher()
	})
	return nil
}

// SendEvent queues an event to be sent to the daemon.
// Events are coalesced within the debounce window. The send never blocks.
func (c *Client) SendEvent(event Event) error {
	if c == nil {
		return ErrNotConnected
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrNotConnected
	}

	select {
	case c.eventQueue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// batch accumulates queued events between flushes, one slot per event
// type in arrival order
type batch struct {
	types      []EventType
	dashboards map[EventType]string
}

func (b *batch) pending() bool { return len(b.types) > 0 }

func (b *batch) add(e Event) {
	if b.dashboards == nil {
		b.dashboards = make(map[EventType]string)
	}
	dashboardID, seen := b.dashboards[e.Type]
	if !seen {
		b.types = append(b.types, e.Type)
		b.dashboards[e.Type] = e.DashboardID
		return
	}
	if dashboardID != e.DashboardID {
		b.dashboards[e.Type] = ""
	}
}

// events returns one event per type seen since the last flush
func (b *batch) events(now time.Time) []Event {
	out := make([]Event, 0, len(b.types))
	for _, t := range b.types {
		out = append(out, Event{Type: t, DashboardID: b.dashboards[t], Timestamp: now})
	}
	return out
}

// startBatcher sends at most one event per type per debounce window.
// Events of one type for different dashboards collapse into one event
// that addresses them all.
func (c *Client) startBatcher() {
	defer close(c.batcherDone)

	ticker := time.NewTicker(c.debounce)
	defer ticker.Stop()

	var b batch
	flush := func() {
		if !b.pending() {
			return
		}
		for _, e := range b.events(time.Now()) {
			if err := c.sendToSocket(e); err != nil && !isConnectionError(err) {
				slog.Warn("failed to send batched event", "event_type", e.Type, "error", err)
			}
		}
		b = batch{}
	}

	for {
		select {
		case <-c.ctx.Done():
			flush()
			return

		case event, ok := <-c.eventQueue:
			if !ok {
				flush()
				return
			}
			b.add(event)

		drain:
			for {
				select {
				case evt, ok := <-c.eventQueue:
					if !ok {
						break drain
					}
					b.add(evt)
				default:
					break drain
				}
			}

		case <-ticker.C:
			flush()
		}
	}
}

// sendToSocket writes one event to the daemon socket.
func (c *Client) sendToSocket(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	// Short write deadline to detect dead connections
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	return c.encoder.Encode(Message{
		Version: ProtocolVersion,
		Type:    "event",
		Event:   &event,
	})
}

// Listen starts listening for events from the daemon.
// The returned channel is closed when ctx is done or reconnection gives up.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	if c == nil {
		ch := make(chan Event)
		close(ch)
		return ch, ErrNotConnected
	}

	eventChan := make(chan Event, 10)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := c.readEvents(ctx, eventChan)
		if err == nil || ctx.Err() != nil {
			return
		}
		slog.Info("daemon connection lost, reconnecting", "error", err)

		if !c.reconnect(ctx) {
			slog.Warn("giving up on daemon connection", "attempts", c.maxRetries)
			return
		}
	}
}

// readEvents decodes messages until the connection fails.
func (c *Client) readEvents(ctx context.Context, eventChan chan Event) error {
	for {
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return ErrNotConnected
		}
		// Server pings every 30s; a minute of silence means the link is dead
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		decoder := c.decoder
		c.mu.Unlock()

		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil || msg.Event.SequenceID <= c.lastSequence {
				continue
			}
			c.lastSequence = msg.Event.SequenceID
			select {
			case eventChan <- *msg.Event:
			case <-ctx.Done():
				return nil
			}

		case "ping":
			if err := c.sendToSocket(Event{Type: EventPong}); err != nil && !isConnectionError(err) {
				slog.Debug("failed to send pong", "error", err)
			}
		}
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConnected) || errors.Is(err, net.ErrClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset")
}

// reconnect retries Connect with exponential backoff.
func (c *Client) reconnect(ctx context.Context) bool {
	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-c.ctx.Done():
			return false
		case <-time.After(delay):
		}

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()

		if err := c.Connect(ctx); err == nil {
			slog.Info("reconnected to daemon", "attempt", i+1)
			return true
		}
		delay *= 2
	}
	return false
}

// Subscribe narrows the events the daemon delivers to one dashboard.
// An empty ID subscribes to every dashboard.
func (c *Client) Subscribe(dashboardID string) error {
	if c == nil {
		return ErrNotConnected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentDashboardID = dashboardID
	if c.conn == nil {
		return ErrNotConnected
	}

	return c.encoder.Encode(Message{
		Version:   ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{DashboardID: dashboardID},
	})
}

// Close flushes pending events, closes the connection and stops all
// goroutines. It is safe to call more than once.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.eventQueue)
	started := c.started
	c.mu.Unlock()

	// The batcher drains the closed queue before exiting
	if started {
		<-c.batcherDone
	}
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

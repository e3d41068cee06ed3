package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sparksai/dashlayout/internal/events"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupTestDaemon(t *testing.T, opts Options) (*Server, string) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "test.sock")

	server, err := NewServer(socketPath, opts)
	if err != nil {
		t.Fatalf("Failed to create test daemon: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = server.Start(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
	return server, socketPath
}

type rawClient struct {
	conn    net.Conn
	encoder *json.Encoder
	decoder *json.Decoder
}

func connectRawClient(t *testing.T, socketPath string) *rawClient {
	t.Helper()

	conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", socketPath)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return &rawClient{conn: conn, encoder: json.NewEncoder(conn), decoder: json.NewDecoder(conn)}
}

func (c *rawClient) subscribe(t *testing.T, dashboardID string) {
	t.Helper()
	err := c.encoder.Encode(events.Message{
		Version:   events.ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &events.SubscribeMessage{DashboardID: dashboardID},
	})
	if err != nil {
		t.Fatalf("Failed to send subscribe: %v", err)
	}
}

func (c *rawClient) publish(t *testing.T, dashboardID string) {
	t.Helper()
	err := c.encoder.Encode(events.Message{
		Version: events.ProtocolVersion,
		Type:    "event",
		Event:   &events.Event{Type: events.EventLayoutChanged, DashboardID: dashboardID},
	})
	if err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
}

// nextEvent reads messages until an event arrives, skipping pings
func (c *rawClient) nextEvent(t *testing.T, timeout time.Duration) (events.Event, bool) {
	t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	for {
		var msg events.Message
		if err := c.decoder.Decode(&msg); err != nil {
			return events.Event{}, false
		}
		if msg.Type == "event" && msg.Event != nil {
			return *msg.Event, true
		}
	}
}

func waitForClients(t *testing.T, server *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if server.getClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, have %d", want, server.getClientCount())
}

func TestNewServer_CreatesDirectoryAndReplacesStaleSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "nested", "dir", "daemon.sock")
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(socketPath, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}

	server, err := NewServer(socketPath, Options{})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if server.opts.ClientBuffer != 10 || server.opts.StaleAfter != 90*time.Second {
		t.Errorf("Unexpected defaults %+v", server.opts)
	}
	if err := server.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if _, err := os.Stat(socketPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected socket file removed, stat err = %v", err)
	}
}

func TestNewServer_EnvBuffers(t *testing.T) {
	t.Setenv("DASHLAYOUT_DAEMON_CLIENT_BUFFER", "42")

	server, err := NewServer(filepath.Join(t.TempDir(), "d.sock"), Options{})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer func() { _ = server.Shutdown() }()

	if server.opts.ClientBuffer != 42 {
		t.Errorf("Expected client buffer 42, got %d", server.opts.ClientBuffer)
	}
}

func TestBroadcast_SubscriptionFiltering(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{})

	all := connectRawClient(t, socketPath)
	all.subscribe(t, "")
	dashA := connectRawClient(t, socketPath)
	dashA.subscribe(t, "a")
	dashB := connectRawClient(t, socketPath)
	dashB.subscribe(t, "b")
	waitForClients(t, server, 3)
	// Let subscriptions land before publishing
	time.Sleep(50 * time.Millisecond)

	publisher := connectRawClient(t, socketPath)
	publisher.publish(t, "a")

	if e, ok := all.nextEvent(t, time.Second); !ok || e.DashboardID != "a" {
		t.Errorf("Subscriber to all: got %+v, ok=%v", e, ok)
	}
	if e, ok := dashA.nextEvent(t, time.Second); !ok || e.DashboardID != "a" {
		t.Errorf("Subscriber to a: got %+v, ok=%v", e, ok)
	}
	if e, ok := dashB.nextEvent(t, 200*time.Millisecond); ok {
		t.Errorf("Subscriber to b should not receive %+v", e)
	}
}

func TestBroadcast_SequenceNumbers(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{})

	listener := connectRawClient(t, socketPath)
	listener.subscribe(t, "")
	waitForClients(t, server, 1)

	for range 3 {
		if err := server.Broadcast(events.Event{Type: events.EventLayoutChanged}); err != nil {
			t.Fatalf("Broadcast failed: %v", err)
		}
	}

	var last int64
	for i := range 3 {
		e, ok := listener.nextEvent(t, time.Second)
		if !ok {
			t.Fatalf("Missing event %d", i)
		}
		if e.SequenceID <= last {
			t.Errorf("Sequence not increasing: %d after %d", e.SequenceID, last)
		}
		last = e.SequenceID
	}

	snap := server.Metrics().Snapshot()
	if snap.LayoutBroadcasts != 3 || snap.LastSequence != last {
		t.Errorf("Expected 3 layout broadcasts ending at %d, got %+v", last, snap)
	}
}

func TestBroadcast_WithEventsClient(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{})

	subscriber := connectRawClient(t, socketPath)
	subscriber.subscribe(t, "dash-1")
	waitForClients(t, server, 1)

	publisher, err := events.NewClient(socketPath, events.WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if err := publisher.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := publisher.SendEvent(events.Event{Type: events.EventLayoutChanged, DashboardID: "dash-1"}); err != nil {
		t.Fatalf("SendEvent failed: %v", err)
	}

	e, ok := subscriber.nextEvent(t, 2*time.Second)
	if !ok {
		t.Fatal("Expected event from events.Client publisher")
	}
	if e.DashboardID != "dash-1" || e.Type != events.EventLayoutChanged {
		t.Errorf("Unexpected event %+v", e)
	}
	if err := publisher.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestClientDisconnection(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{})

	c := connectRawClient(t, socketPath)
	waitForClients(t, server, 1)

	_ = c.conn.Close()
	waitForClients(t, server, 0)
}

func TestMonitorHealth_PingsAndDropsStaleClients(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{
		PingInterval: 20 * time.Millisecond,
		StaleAfter:   60 * time.Millisecond,
	})

	c := connectRawClient(t, socketPath)
	waitForClients(t, server, 1)

	var msg events.Message
	_ = c.conn.SetReadDeadline(time.Now().Add(time.Second))
	if err := c.decoder.Decode(&msg); err != nil {
		t.Fatalf("Expected a ping, got %v", err)
	}
	if msg.Type != "ping" {
		t.Errorf("Expected ping, got %q", msg.Type)
	}

	// Never answering pings gets the client dropped
	waitForClients(t, server, 0)
}

func TestShutdown_Idempotent(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{})
	connectRawClient(t, socketPath)
	waitForClients(t, server, 1)

	if err := server.Shutdown(); err != nil {
		t.Fatalf("First shutdown failed: %v", err)
	}
	if err := server.Shutdown(); err != nil {
		t.Fatalf("Second shutdown failed: %v", err)
	}
	if err := server.Broadcast(events.Event{Type: events.EventLayoutChanged}); err == nil {
		t.Error("Expected Broadcast to fail after shutdown")
	}
}

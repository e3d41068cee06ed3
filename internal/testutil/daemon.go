package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sparksai/dashlayout/internal/daemon"
	"github.com/sparksai/dashlayout/internal/events"
)

// SetupTestDaemon starts a daemon on a temporary socket and stops it on
// cleanup.
func SetupTestDaemon(t *testing.T) (*daemon.Server, string) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "test.sock")
	server, err := daemon.NewServer(socketPath, daemon.Options{})
	if err != nil {
		t.Fatalf("Failed to create test daemon: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Start(ctx); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
	return server, socketPath
}

// SetupTestClient connects an events client with a short debounce window
func SetupTestClient(t *testing.T, socketPath string) *events.Client {
	t.Helper()

	client, err := events.NewClient(socketPath, events.WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// WaitForEvent waits for the next event or fails the test
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("Event channel closed")
		}
		return e
	case <-time.After(timeout):
		t.Fatalf("Timed out after %v waiting for event", timeout)
	}
	return events.Event{}
}

// RecordingPublisher implements events.EventPublisher by keeping every sent
// event in memory.
type RecordingPublisher struct {
	Sent []events.Event
}

func (p *RecordingPublisher) Connect(context.Context) error { return nil }

func (p *RecordingPublisher) SendEvent(e events.Event) error {
	p.Sent = append(p.Sent, e)
	return nil
}

func (p *RecordingPublisher) Listen(context.Context) (<-chan events.Event, error) {
	ch := make(chan events.Event)
	close(ch)
	return ch, nil
}

func (p *RecordingPublisher) Subscribe(string) error { return nil }
func (p *RecordingPublisher) Close() error           { return nil }

var _ events.EventPublisher = (*RecordingPublisher)(nil)

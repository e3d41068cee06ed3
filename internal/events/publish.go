package events

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const publishBaseDelay = 50 * time.Millisecond

// PublishWithRetry queues event on client, retrying a full queue with
// exponential backoff (50ms, 100ms, ...) up to attempts times. A closed
// client is not retried. Live updates are best effort, so callers log the
// returned error and carry on.
func PublishWithRetry(ctx context.Context, client Publisher, event Event, attempts int) error {
	if client == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var err error
	delay := publishBaseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = client.SendEvent(event); err == nil {
			return nil
		}
		if errors.Is(err, ErrNotConnected) || attempt == attempts {
			break
		}

		slog.Debug("event queue busy, retrying",
			"event_type", event.Type,
			"dashboard_id", event.DashboardID,
			"attempt", attempt,
			"retry_in", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

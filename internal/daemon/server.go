// Package daemon implements the event hub that fans layout changes out to
// every connected dashlayout process over a Unix domain socket.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sparksai/dashlayout/internal/events"
	"golang.org/x/sync/errgroup"
)

// ErrBroadcastFull is returned when the broadcast queue cannot take more events
var ErrBroadcastFull = errors.New("broadcast channel full")

// client represents a connection to the daemon
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastSeen     time.Time
	closed       bool
	mu           sync.Mutex // protects subscription, lastSeen, closed and send
}

// Options tune the server. Zero values fall back to defaults.
type Options struct {
	BroadcastBuffer int
	ClientBuffer    int
	PingInterval    time.Duration
	StaleAfter      time.Duration
}

func (o Options) withDefaults() Options {
	if o.BroadcastBuffer <= 0 {
		o.BroadcastBuffer = getEnvInt("DASHLAYOUT_DAEMON_BROADCAST_BUFFER", 100)
	}
	if o.ClientBuffer <= 0 {
		o.ClientBuffer = getEnvInt("DASHLAYOUT_DAEMON_CLIENT_BUFFER", 10)
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.StaleAfter <= 0 {
		o.StaleAfter = 3 * o.PingInterval
	}
	return o
}

// Server is the dashlayout event daemon
type Server struct {
	socketPath string
	listener   net.Listener
	opts       Options

	clients map[*client]struct{}
	closed  bool
	mu      sync.RWMutex

	clientWG sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	broadcast       chan events.Event
	metrics         *Metrics
	sequenceCounter atomic.Int64
	shutdownOnce    sync.Once
}

// getEnvInt reads a positive integer from the environment
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewServer creates the socket and returns a server ready to Start.
// A stale socket file left by a crashed daemon is removed first.
func NewServer(socketPath string, opts Options) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		opts:       opts,
		clients:    make(map[*client]struct{}),
		ctx:        ctx,
		cancel:     cancel,
		broadcast:  make(chan events.Event, opts.BroadcastBuffer),
		metrics:    NewMetrics(),
	}, nil
}

// SocketPath returns the path the server listens on
func (s *Server) SocketPath() string { return s.socketPath }

// Metrics returns the live counters
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start runs the accept, broadcast and health loops until ctx is cancelled
// or Shutdown is called, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon listening", "socket_path", s.socketPath)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-s.ctx.Done():
		}
		// Unblocks Accept
		s.cancel()
		_ = s.listener.Close()
		return nil
	})
	g.Go(func() error { return s.acceptLoop() })
	g.Go(func() error {
		s.broadcastLoop(s.ctx)
		return nil
	})
	g.Go(func() error {
		s.monitorHealth(s.ctx)
		return nil
	})

	err := g.Wait()
	if shutdownErr := s.Shutdown(); err == nil {
		err = shutdownErr
	}
	return err
}

func (s *Server) acceptLoop() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.cancel()
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.opts.ClientBuffer),
			lastSeen: time.Now(),
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		s.clients[c] = struct{}{}
		s.clientWG.Add(2)
		s.mu.Unlock()

		s.updateClientCount()
		slog.Debug("client connected", "clients", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps sequence numbers and fans events out to subscribers
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.countBroadcast(event)

			msg := events.Message{
				Version: events.ProtocolVersion,
				Type:    "event",
				Event:   &event,
			}

			for _, c := range s.snapshotClients() {
				c.mu.Lock()
				subscribed := event.Matches(c.subscription.DashboardID)
				c.mu.Unlock()

				if subscribed && !s.sendToClient(c, msg) {
					s.metrics.countDropped()
					slog.Warn("client send queue full, event dropped", "sequence_id", event.SequenceID)
				}
			}
		}
	}
}

// handleClient reads messages from one connection until it fails
func (s *Server) handleClient(c *client) {
	defer s.clientWG.Done()
	defer func() {
		s.removeClient(c)
		slog.Debug("client disconnected", "clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		c.mu.Lock()
		c.lastSeen = time.Now()
		c.mu.Unlock()

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil || msg.Event.Type == events.EventPong {
				continue
			}
			s.metrics.countReceived()
			if err := s.Broadcast(*msg.Event); err != nil {
				s.metrics.countDropped()
				slog.Warn("dropping event", "error", err)
			}

		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("client subscribed", "dashboard_id", msg.Subscribe.DashboardID)
			}
		}
	}
}

// clientWriter drains a client's send queue onto its connection
func (s *Server) clientWriter(c *client) {
	defer s.clientWG.Done()

	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			s.removeClient(c)
			// Keep draining so senders never block on a dead client
			for range c.send {
			}
			return
		}
		s.metrics.countSent()
	}
}

// monitorHealth pings every client and drops the ones that went quiet
func (s *Server) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	ping := events.Message{
		Version: events.ProtocolVersion,
		Type:    "ping",
		Event:   &events.Event{Type: events.EventPing},
	}

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-ticker.C:
			for _, c := range s.snapshotClients() {
				c.mu.Lock()
				idle := now.Sub(c.lastSeen)
				c.mu.Unlock()

				if idle > s.opts.StaleAfter {
					slog.Info("removing stale client", "idle", idle.Round(time.Second))
					s.removeClient(c)
					continue
				}
				if !s.sendToClient(c, ping) {
					slog.Debug("failed to queue ping")
				}
			}
		}
	}
}

// Broadcast queues an event for delivery without blocking
func (s *Server) Broadcast(event events.Event) error {
	if s.ctx.Err() != nil {
		return net.ErrClosed
	}
	select {
	case s.broadcast <- event:
		return nil
	default:
		return ErrBroadcastFull
	}
}

// Shutdown closes the listener and every client, waits for client
// goroutines and removes the socket file. It is idempotent.
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		slog.Info("daemon shutting down", "metrics", s.metrics.Snapshot())

		s.cancel()
		_ = s.listener.Close()

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		for _, c := range s.snapshotClients() {
			s.removeClient(c)
		}
		s.clientWG.Wait()

		if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove socket file", "error", err)
		}
	})
	return nil
}

func (s *Server) snapshotClients() []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		out = append(out, c)
	}
	return out
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.setClients(s.getClientCount())
}

// removeClient unregisters a client and closes its connection and queue.
// Safe to call from several goroutines.
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	c.mu.Lock()
	if !c.closed {
		c.closed = true
		_ = c.conn.Close()
		close(c.send)
	}
	c.mu.Unlock()

	s.updateClientCount()
}

// sendToClient queues a message for a client without blocking.
// It reports false when the client is gone or its queue is full.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/matchday/internal/domain/eventbus"
	"github.com/okian/matchday/pkg/ident"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = 30 * time.Second
	defaultClientSize = 256
)

// streamTopics are forwarded to websocket clients.
var streamTopics = []string{
	eventbus.TopicMatchEvent,
	eventbus.TopicMatchFinished,
	eventbus.TopicStandingsUpdated,
	eventbus.TopicMomentFired,
}

// StreamMessage is one frame sent to a websocket client.
type StreamMessage struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// streamClient is one websocket connection. Frames are queued on send and
// written by a single goroutine.
type streamClient struct {
	id     string
	conn   *websocket.Conn
	topics map[string]bool
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *streamClient) wants(topic string) bool {
	return len(c.topics) == 0 || c.topics[topic]
}

func (c *streamClient) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Stream pushes bus traffic to websocket clients on /ws/matches. Clients may
// narrow the topics with ?topics=match.event,match.finished.
type Stream struct {
	upgrader   websocket.Upgrader
	bus        *eventbus.Bus
	subs       []eventbus.Subscription
	bufferSize int
	log        logger.Logger

	mu      sync.RWMutex
	clients map[string]*streamClient
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithClientBuffer sets how many frames a slow client may lag before frames
// are dropped for it.
func WithClientBuffer(n int) StreamOption {
	return func(s *Stream) {
		if n > 0 {
			s.bufferSize = n
		}
	}
}

// WithStreamLogger sets the stream logger.
func WithStreamLogger(l logger.Logger) StreamOption {
	return func(s *Stream) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStream subscribes to bus and returns a handler ready to upgrade
// connections.
func NewStream(bus *eventbus.Bus, opts ...StreamOption) *Stream {
	s := &Stream{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(*http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		bus:        bus,
		bufferSize: defaultClientSize,
		clients:    make(map[string]*streamClient),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("stream")
	}
	for _, topic := range streamTopics {
		s.subs = append(s.subs, bus.On(topic, s.forward(topic)))
	}
	return s
}

// forward returns the bus listener for topic. The payload is encoded once
// and queued for each interested client without blocking the publisher.
func (s *Stream) forward(topic string) eventbus.Listener {
	return func(ctx context.Context, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		frame, err := json.Marshal(StreamMessage{Topic: topic, Data: payload})
		if err != nil {
			return err
		}

		s.mu.RLock()
		defer s.mu.RUnlock()
		for _, c := range s.clients {
			if !c.wants(topic) {
				continue
			}
			select {
			case c.send <- frame:
			case <-c.done:
			default:
				s.log.Warn(ctx, "stream client lagging, frame dropped",
					logger.String("client", c.id), logger.String("topic", topic))
			}
		}
		return nil
	}
}

// ServeHTTP upgrades the connection and streams until the client leaves.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an error response.
		s.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	c := &streamClient{
		id:     ident.ShortID(8),
		conn:   conn,
		topics: parseTopics(r.URL.Query().Get("topics")),
		send:   make(chan []byte, s.bufferSize),
		done:   make(chan struct{}),
	}
	s.add(c)
	defer s.remove(c)

	go s.writeLoop(c)
	s.readLoop(c)
}

// Clients returns the number of connected clients.
func (s *Stream) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close unsubscribes from the bus and disconnects every client.
func (s *Stream) Close() {
	for _, sub := range s.subs {
		s.bus.Off(sub)
	}
	s.subs = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		c.close()
		delete(s.clients, id)
	}
	metrics.UpdateStreamClients(0)
}

func (s *Stream) add(c *streamClient) {
	s.mu.Lock()
	s.clients[c.id] = c
	n := len(s.clients)
	s.mu.Unlock()
	metrics.UpdateStreamClients(n)
	s.log.Debug(context.Background(), "stream client connected", logger.String("client", c.id))
}

func (s *Stream) remove(c *streamClient) {
	c.close()
	s.mu.Lock()
	delete(s.clients, c.id)
	n := len(s.clients)
	s.mu.Unlock()
	metrics.UpdateStreamClients(n)
	s.log.Debug(context.Background(), "stream client disconnected", logger.String("client", c.id))
}

// readLoop discards client frames; it exists to process control frames and
// notice disconnects.
func (s *Stream) readLoop(c *streamClient) {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Stream) writeLoop(c *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.close()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func parseTopics(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	topics := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics[t] = true
		}
	}
	return topics
}

package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/metrics"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

const (
	// EventStatsUpdated is sent after every journal or mood write.
	EventStatsUpdated = "stats.updated"
	// StatsChannelPrefix is the Redis pub/sub channel prefix, one channel per user.
	StatsChannelPrefix = "stats:user:"
	// StatsWriteWait bounds a single event write to one connection.
	StatsWriteWait = 10 * time.Second
)

// StatsEvent is the payload broadcast over Redis and WebSocket.
type StatsEvent struct {
	Type      string       `json:"type"`
	UserID    string       `json:"user_id"`
	Stats     models.Stats `json:"stats"`
	Timestamp time.Time    `json:"timestamp"`
}

// StatsPublisher delivers stats events to every server instance.
type StatsPublisher interface {
	PublishStats(ctx context.Context, event StatsEvent) error
}

// StatsConn is the minimal interface our WebSocket implementation must satisfy.
type StatsConn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type statsClient struct {
	conn StatsConn
	mu   sync.Mutex // one writer at a time per connection
}

// StatsHub is a registry of live /ws/stats connections keyed by user. A user
// may hold several connections (tabs, devices).
type StatsHub struct {
	mu        sync.RWMutex
	clients   map[string]map[StatsConn]*statsClient
	writeWait time.Duration
}

func NewStatsHub() *StatsHub {
	return &StatsHub{
		clients:   make(map[string]map[StatsConn]*statsClient),
		writeWait: StatsWriteWait,
	}
}

// Register adds a connection for userID.
func (h *StatsHub) Register(userID string, conn StatsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[StatsConn]*statsClient)
		h.clients[userID] = set
	}
	set[conn] = &statsClient{conn: conn}
	metrics.StatsSubscribers.Inc()
}

// Unregister removes a connection. Unknown connections are ignored.
func (h *StatsHub) Unregister(userID string, conn StatsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.clients, userID)
	}
	metrics.StatsSubscribers.Dec()
}

// Send writes v to one registered connection, serialized with fan-out writes.
func (h *StatsHub) Send(userID string, conn StatsConn, v interface{}) error {
	h.mu.RLock()
	c, ok := h.clients[userID][conn]
	h.mu.RUnlock()
	if !ok {
		return h.write(conn, v)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return h.write(c.conn, v)
}

func (h *StatsHub) write(conn StatsConn, v interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// Connections returns how many sockets userID has open.
func (h *StatsHub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// FanOut sends an event to all local connections of its user.
func (h *StatsHub) FanOut(event StatsEvent) {
	if event.UserID == "" {
		return
	}

	h.mu.RLock()
	targets := make([]*statsClient, 0, len(h.clients[event.UserID]))
	for _, c := range h.clients[event.UserID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.mu.Lock()
		err := h.write(c.conn, event)
		c.mu.Unlock()
		if err != nil {
			// A timed-out connection is unusable. Closing it ends the
			// handler's read loop, which unregisters it.
			logging.Warn().Err(err).Str("user_id", event.UserID).Msg("error writing stats event to websocket")
			_ = c.conn.Close()
		}
	}
}

// PublishStats lets the hub act as its own publisher when there is no Redis.
func (h *StatsHub) PublishStats(ctx context.Context, event StatsEvent) error {
	h.FanOut(event)
	return nil
}

// RedisStatsPublisher publishes events on stats:user:<id>.
type RedisStatsPublisher struct {
	rdb *redis.Client
}

func NewRedisStatsPublisher(rdb *redis.Client) *RedisStatsPublisher {
	return &RedisStatsPublisher{rdb: rdb}
}

func (p *RedisStatsPublisher) PublishStats(ctx context.Context, event StatsEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, StatsChannelPrefix+event.UserID, data).Err()
}

// RunStatsSubscriber holds one pattern subscription per instance and fans
// events out to local connections. It reconnects with exponential backoff
// and returns when ctx is cancelled.
func RunStatsSubscriber(ctx context.Context, rdb *redis.Client, hub *StatsHub) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := rdb.PSubscribe(ctx, StatsChannelPrefix+"*")
			defer pubsub.Close()

			logging.Info().Msg("✅ Stats Redis subscriber started (pattern: " + StatsChannelPrefix + "*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					logging.Warn().Err(err).Dur("backoff", backoff).Msg("Redis subscriber error")
					select {
					case <-ctx.Done():
					case <-time.After(backoff):
					}
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event StatsEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logging.Warn().Err(err).Msg("failed to unmarshal stats event")
					continue
				}
				if event.UserID == "" {
					event.UserID = strings.TrimPrefix(msg.Channel, StatsChannelPrefix)
				}
				hub.FanOut(event)
			}
		}()
	}
}

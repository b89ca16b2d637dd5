package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/services"
)

const (
	wsReadLimit    = 4 * 1024
	wsPongWait     = 90 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteWait    = services.StatsWriteWait
)

// StatsSocketHandler upgrades /ws/stats and streams stats.updated events for
// the authenticated user.
type StatsSocketHandler struct {
	hub      *services.StatsHub
	stats    *services.StatsService
	upgrader websocket.Upgrader
}

// NewStatsSocketHandler accepts any of allowedOrigins. An empty list accepts
// every origin.
func NewStatsSocketHandler(hub *services.StatsHub, stats *services.StatsService, allowedOrigins []string) *StatsSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}
	return &StatsSocketHandler{
		hub:   hub,
		stats: stats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				return origins[strings.ToLower(origin)]
			},
		},
	}
}

func (h *StatsSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity(r).UserID
	loc := requestLocation(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.hub.Register(userID, conn)
	defer func() {
		h.hub.Unregister(userID, conn)
		conn.Close()
	}()

	ctx, cancel := storeContext(r)
	stats, err := h.stats.Stats(ctx, userID, loc)
	cancel()
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to load initial stats")
	} else {
		initial := services.StatsEvent{
			Type:      services.EventStatsUpdated,
			UserID:    userID,
			Stats:     stats,
			Timestamp: time.Now().UTC(),
		}
		if err := h.hub.Send(userID, conn, initial); err != nil {
			return
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	// The stream is server to client only. Reading keeps pong handling alive
	// and notices when the client goes away.
	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Ctx(r.Context()).Debug().Err(err).Str("user_id", userID).Msg("stats websocket closed")
			}
			return
		}
	}
}

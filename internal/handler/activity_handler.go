package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/docuscan/docuscan/internal/broker"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second // Time allowed to write an event to the peer
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // add origin check in production
	},
}

// ActivityHandler streams live scan activity to connected admin dashboards.
// A single broker subscription fans out to every open connection. Each
// connection carries its own write lock so the broadcast fan-out and the
// ping loop never write to the same connection at once.
type ActivityHandler struct {
	activity broker.ActivityBroker
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
}

func NewActivityHandler(activity broker.ActivityBroker) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Start subscribes to the activity channel and broadcasts events to all
// connected clients. Call once at startup.
func (h *ActivityHandler) Start() error {
	events, err := h.activity.Subscribe()
	if err != nil {
		return err
	}

	go func() {
		for event := range events {
			h.broadcast(event)
		}
	}()

	return nil
}

func (h *ActivityHandler) broadcast(event broker.ScanActivity) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, wmu := range h.clients {
		wmu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteJSON(event)
		wmu.Unlock()
		if err != nil {
			logger.Log.Debug("Activity feed write failed, dropping client",
				zap.Error(err),
			)
			// removal happens in the read pump when the connection dies
		}
	}
}

// HandleActivityFeed upgrades an admin connection to a websocket and keeps
// it registered until the peer goes away. Runs behind the auth and admin
// middleware.
// GET /admin/activity
func (h *ActivityHandler) HandleActivityFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("Activity feed upgrade failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		return
	}

	wmu := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = wmu
	h.mu.Unlock()

	logger.Log.Info("Admin connected to activity feed",
		zap.String("admin", c.GetString("username")),
		zap.String("ip", c.ClientIP()),
	)

	go h.pingLoop(conn, wmu)
	h.readPump(conn)
}

// readPump discards client frames; it exists to process pongs and detect
// closed connections.
func (h *ActivityHandler) readPump(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *ActivityHandler) pingLoop(conn *websocket.Conn, wmu *sync.Mutex) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		_, alive := h.clients[conn]
		h.mu.RUnlock()
		if !alive {
			return
		}

		wmu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteMessage(websocket.PingMessage, nil)
		wmu.Unlock()
		if err != nil {
			return
		}
	}
}

package handler

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docuscan/docuscan/internal/broker"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// Concurrent broadcasts must be serialized per connection; gorilla/websocket
// allows only one writer on a connection at a time.
func TestActivityFeedSerializesConcurrentWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	h := NewActivityHandler(nil)

	router := gin.New()
	router.GET("/admin/activity", h.HandleActivityFeed)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/activity"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.NoError(t, err)
	defer conn.Close()

	// Wait until the server side has registered the connection
	deadline := time.Now().Add(2 * time.Second)
	for {
		h.mu.RLock()
		registered := len(h.clients)
		h.mu.RUnlock()
		if registered == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	const events = 20
	var wg sync.WaitGroup
	for i := 0; i < events; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.broadcast(broker.ScanActivity{
				Username:   "admin",
				Filename:   "report.txt",
				DocumentID: uint(i + 1),
				MatchCount: 0,
				Timestamp:  time.Now().Format(time.RFC3339),
			})
		}(i)
	}

	received := 0
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for received < events {
		var event broker.ScanActivity
		if err := conn.ReadJSON(&event); err != nil {
			break
		}
		assert.Equal(t, "admin", event.Username)
		received++
	}
	wg.Wait()

	assert.Equal(t, events, received)
}

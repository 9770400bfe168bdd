package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"user_manager/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Mutation stream
// @Description  WebSocket sending {"type":"stats"} on connect, then {"type":"event","data":UserEvent} followed by fresh stats for every recorded mutation.
// @Tags         users
// @Param        user_id  query  string  false  "Only mutations of this user"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	if h.services.Feed == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream unavailable"})
		return
	}
	userID := strings.TrimSpace(c.Query("user_id"))

	// Subscribe before the first write so nothing recorded after the
	// initial stats is missed.
	events, cancel := h.services.Feed.Subscribe()
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	ctx := c.Request.Context()
	if err := h.sendStats(ctx, conn); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			if userID != "" && e.UserID != userID {
				continue
			}
			if err := h.sendEvent(ctx, conn, e); err != nil {
				h.log.Infow("ws_write_failed", "err", err, "event_id", e.EventID)
				return
			}
		}
	}
}

// startReader drains incoming frames so control messages are handled and a
// closed peer is noticed.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// sendEvent writes the mutation and then the totals it produced.
func (h *Handler) sendEvent(ctx context.Context, conn *websocket.Conn, e models.UserEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: "event", Data: e}); err != nil {
		return err
	}
	return h.sendStats(ctx, conn)
}

func (h *Handler) sendStats(ctx context.Context, conn *websocket.Conn) error {
	st, err := h.services.Stats.GetStats(ctx)
	if err != nil {
		h.log.Errorw("ws_get_stats_failed", "err", err)
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "stats", Data: st})
}

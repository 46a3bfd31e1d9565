package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tablero-dev/tablero/internal/types"
	"github.com/tablero-dev/tablero/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	refreshPeriod  = 15 * time.Second
	maxMessageSize = 512
)

// NotificationsSocket streams the authenticated user's notification
// list. The store expires records on its own, so pushing the current
// list on an interval is enough to keep clients fresh; there is no
// server-side fan-out registry.
func (h *Handler) NotificationsSocket(c *gin.Context) {
	principal, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	defer func() {
		conn.Close()
		log.Printf("WebSocket connection closed for user %s", principal.Email)
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	// Reader goroutine only services control frames.
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		notifications, err := h.Notifications.List(principal.Email)

		if err != nil {
			log.Printf("Failed to load notifications for %s: %v", principal.Email, err)
			return true
		}

		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return false
		}

		err = conn.WriteJSON(gin.H{
			"type":          "notifications",
			"notifications": notifications,
		})

		if err != nil {
			log.Printf("Failed to push notifications to %s: %v", principal.Email, err)
			return false
		}

		return true
	}

	if !push() {
		return
	}

	refresh := time.NewTicker(refreshPeriod)
	defer refresh.Stop()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-refresh.C:
			if !push() {
				return
			}
		case <-ping.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

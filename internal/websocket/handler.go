package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches an upgraded connection to the hub for the given user.
// It blocks until the peer disconnects; the write side runs in its own
// goroutine so pings keep flowing while the read side waits.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	client := &Client{
		Hub:    hub,
		Conn:   c,
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
	hub.register <- client

	go client.writePump()
	client.readPump()
}

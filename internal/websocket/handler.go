package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection with the hub and runs the pumps until
// the connection dies. bind receives the registered client and returns the
// per-frame callback, so callers can attach a session to the client before
// the first frame arrives. Blocks for the connection's lifetime.
func ServeWs(hub *Hub, conn *websocket.Conn, bind func(client *Client) func(data []byte)) {
	client := &Client{Hub: hub, Conn: conn, Id: uuid.New(), Send: make(chan []byte, 256)}
	client.Hub.register <- client

	onMessage := bind(client)
	go client.writePump()
	client.readPump(onMessage)
}

package websocket

import (
	"time"

	fiberws "github.com/gofiber/contrib/websocket"
)

const (
	// writeWait bounds how long a single frame write may take.
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent before it is
	// considered dead; pings go out a little more often than that.
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// ServeEvent returns the connection handler for GET /ws/events/:id. Each
// accepted connection becomes a Client registered with the Hub under its
// event ID, and from then on receives every leaderboard broadcast for that
// event until it disconnects or falls too far behind.
func ServeEvent(hub *Hub) func(*fiberws.Conn) {
	return func(conn *fiberws.Conn) {
		client := &Client{
			EventID: conn.Params("id"),
			Send:    make(chan []byte, 256),
		}
		hub.Register(client)

		// The writer runs in its own goroutine; reading happens here because
		// the connection is closed as soon as this handler returns.
		go writePump(conn, client)
		readPump(conn, hub, client)
	}
}

// readPump drains inbound frames. Spectator connections are one-way — the
// read loop exists only to process pong frames and to notice the peer going
// away.
func readPump(conn *fiberws.Conn, hub *Hub, client *Client) {
	defer hub.Unregister(client)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards Hub broadcasts to the socket and keeps the connection
// alive with periodic pings. It exits when the Hub closes the Send channel
// (the client was dropped) or a write fails; closing the connection on the
// way out unblocks readPump.
func writePump(conn *fiberws.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(fiberws.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(fiberws.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(fiberws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

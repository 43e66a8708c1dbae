package infra

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// MessageHandler handle one inbound message, returning an error closes the
// connection. ctx is the upgrade request context.
type MessageHandler func(ctx context.Context, conn *websocket.Conn) error

// Websocket upgrader with ping/pong keepalive
type Websocket struct {
	upgrader     websocket.Upgrader
	writeWait    time.Duration
	pongWait     time.Duration
	pingInterval time.Duration
}

// NewWebsocket create a Websocket accepting any origin
func NewWebsocket() *Websocket {
	pongWait := 30 * time.Second
	return &Websocket{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			HandshakeTimeout: 3 * time.Second,
		},
		writeWait:    10 * time.Second,
		pongWait:     pongWait,
		pingInterval: pongWait * 9 / 10,
	}
}

// WithHeartbeat upgrade the request and run handler for every message until
// it fails or the peer stops answering pings
func (ws *Websocket) WithHeartbeat(handler MessageHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := ws.upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// upgrader already replied
			return nil
		}

		done := make(chan struct{})
		go ws.heartbeat(conn, done)
		ws.process(c.Request().Context(), conn, handler)
		close(done)
		return nil
	}
}

func (ws *Websocket) heartbeat(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(ws.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ws.writeWait)); err != nil {
				return
			}
		}
	}
}

func (ws *Websocket) process(ctx context.Context, conn *websocket.Conn, handler MessageHandler) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(ws.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ws.pongWait))
	})
	for {
		if err := handler(ctx, conn); err != nil {
			return
		}
	}
}

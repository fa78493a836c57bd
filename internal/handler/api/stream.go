package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	applogger "FundPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	sendBufferSize = 64
)

// StreamHandler fans fresh signals out to WebSocket subscribers. Slow
// clients are dropped rather than allowed to block the broadcast path.
type StreamHandler struct {
	upgrader websocket.Upgrader
	clients  map[*streamClient]struct{}
	mu       sync.Mutex
	l        *applogger.Logger
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewStreamHandler(l *applogger.Logger) *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*streamClient]struct{}),
		l:       l,
	}
}

// Serve upgrades the connection and registers the subscriber.
func (h *StreamHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &streamClient{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	if h.l != nil {
		h.l.Info("ws subscriber connected", applogger.Int("subscribers", n))
	}

	go h.writePump(client)
	go h.readPump(client)
	return nil
}

// Broadcast sends a JSON-encoded value to every subscriber.
func (h *StreamHandler) Broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		if h.l != nil {
			h.l.Warn("ws broadcast marshal", applogger.Error(err))
		}
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// backpressure: drop the slow client
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// Close disconnects every subscriber.
func (h *StreamHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *StreamHandler) writePump(client *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and detects disconnects.
func (h *StreamHandler) readPump(client *streamClient) {
	defer h.drop(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) drop(client *streamClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	client.conn.Close()
}

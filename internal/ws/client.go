// Package ws carries the per-connection plumbing: the wire envelope, the
// read/write pumps and the bounded outbound queue.
package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024

	sendQueueSize = 64
)

// Event is the wire envelope: a name plus an opaque JSON payload.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EventHandler receives every parsed inbound event and the connection-loss
// notification for a client.
type EventHandler interface {
	HandleEvent(c *Client, ev *Event) error
	HandleDisconnect(c *Client)
}

// Client is one authenticated connection. ID is the connection handle: a
// reconnecting user gets a fresh Client with a fresh ID.
type Client struct {
	ID       uuid.UUID
	UserID   string
	Username string

	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func NewClient(conn *websocket.Conn, userID, username string) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Username: username,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
	}
}

// ReadPump consumes inbound events until the connection drops, then reports
// the disconnect. Handler errors are answered on this connection only.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		handler.HandleDisconnect(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			return
		}

		if err := c.handleEvent(handler, &ev); err != nil {
			log.Printf("event %s from %s: %v", ev.Name, c.UserID, err)
			c.SendError(err.Error())
		}
	}
}

// handleEvent shields the read loop from a panicking handler: one bad event
// answers this connection with an error instead of taking the process down.
func (c *Client) handleEvent(handler EventHandler, ev *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic in %s handler: %v", ev.Name, r)
			err = ErrInvalidEvent
		}
	}()
	return handler.HandleEvent(c, ev)
}

// WritePump drains the send queue to the socket and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues an event for delivery without ever blocking the caller.
// A full queue returns ErrClientQueueFull and the event is dropped.
func (c *Client) SendEvent(name string, data interface{}) error {
	ev := Event{Name: name}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		ev.Data = raw
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(message string) {
	c.SendEvent("error", map[string]string{"message": message})
}

package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 512
)

// Client is one websocket subscriber. The hub owns and closes send.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	hr       bool
	projects map[int64]struct{}
}

// NewClient subscribes conn to the given projects, or to every project when
// none are given. Only HR clients receive rating outcomes.
func NewClient(hub *Hub, conn *websocket.Conn, hr bool, projects []int64) *Client {
	c := &Client{hub: hub, conn: conn, send: make(chan []byte, 32), hr: hr}
	if len(projects) > 0 {
		c.projects = make(map[int64]struct{}, len(projects))
		for _, id := range projects {
			c.projects[id] = struct{}{}
		}
	}
	return c
}

func (c *Client) wants(evt Event) bool {
	if evt.hrOnly() && !c.hr {
		return false
	}
	if c.projects == nil {
		return true
	}
	_, ok := c.projects[evt.ProjectID]
	return ok
}

// ReadPump only watches for pongs and close frames; clients never send events.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

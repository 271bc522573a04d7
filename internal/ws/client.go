package ws

import (
	"io"
	"log"
	"time"

	"github.com/comunifi/droprelay/pkg/relay"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultWriteWait = 10 * time.Second
	defaultPongWait  = 60 * time.Second

	// slowest peer we still serve, large bundles get this much extra time
	minTransferRate = 256 << 10 // bytes per second

	sendBufferSize = 256
)

// Client is a single websocket connection. Its groups are only touched from
// the manager's dispatch loop.
type Client struct {
	ID string

	conn   *websocket.Conn
	send   chan []byte
	groups map[string]struct{}
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		groups: map[string]struct{}{},
	}
}

// writeDeadline grows with the size of the payload
func writeDeadline(wait time.Duration, n int) time.Time {
	return time.Now().Add(wait + time.Duration(n)*time.Second/minTransferRate)
}

// progressReader pushes the read deadline back every time part of a frame
// arrives, so only stalled peers time out
type progressReader struct {
	r    io.Reader
	conn *websocket.Conn
	wait time.Duration
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.conn.SetReadDeadline(time.Now().Add(p.wait))
	}

	return n, err
}

func (c *Client) readPump(m *Manager) {
	defer func() {
		select {
		case m.unregister <- c:
		case <-m.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(m.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(m.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(m.pongWait))
	})

	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Default().Printf("client %s read error: %v", c.ID, err)
			}
			return
		}

		b, err := io.ReadAll(&progressReader{r: r, conn: c.conn, wait: m.pongWait})
		if err != nil {
			log.Default().Printf("client %s read error: %v", c.ID, err)
			return
		}

		msg, err := relay.ParseWSMessage(b)
		if err != nil {
			// not an event, nothing to route
			continue
		}

		select {
		case m.inbound <- inbound{client: c, msg: msg}:
		case <-m.done:
			return
		}
	}
}

func (c *Client) writePump(m *Manager) {
	ticker := time.NewTicker((m.pongWait * 9) / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(m.writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.conn.SetWriteDeadline(writeDeadline(m.writeWait, len(b)))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(m.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/comunifi/droprelay/pkg/relay"
	"github.com/gorilla/websocket"
)

// HandlerFunc handles one inbound event. Handlers are always invoked from the
// manager's dispatch loop, one at a time.
type HandlerFunc func(ctx context.Context, c *Client, data json.RawMessage)

type inbound struct {
	client *Client
	msg    *relay.WSMessage
}

// Manager owns every connection and transport group of this process and
// serializes all event handling on a single goroutine (see Run).
type Manager struct {
	upgrader       websocket.Upgrader
	maxMessageSize int64
	writeWait      time.Duration
	pongWait       time.Duration

	handlers map[relay.WSEventName]HandlerFunc

	clients map[string]*Client
	groups  map[string]map[string]*Client
	broker  Broker

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	done       chan struct{}
}

// NewManager creates a connection manager. An empty allowedOrigin accepts
// upgrades from any origin. broker may be nil for a single process setup.
func NewManager(allowedOrigin string, maxMessageSize int64, broker Broker) *Manager {
	m := &Manager{
		maxMessageSize: maxMessageSize,
		writeWait:      defaultWriteWait,
		pongWait:       defaultPongWait,
		handlers:       map[relay.WSEventName]HandlerFunc{},
		clients:        map[string]*Client{},
		groups:         map[string]map[string]*Client{},
		broker:         broker,
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		inbound:        make(chan inbound),
		done:           make(chan struct{}),
	}

	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return CheckOrigin(allowedOrigin, r.Header.Get("Origin"))
		},
	}

	return m
}

// CheckOrigin reports whether a request coming from origin may connect
func CheckOrigin(allowedOrigin, origin string) bool {
	if allowedOrigin == "" || allowedOrigin == "*" || origin == "" {
		return true
	}

	return strings.EqualFold(strings.TrimSuffix(allowedOrigin, "/"), origin)
}

// Handle registers a handler for a named event
func (m *Manager) Handle(event relay.WSEventName, h HandlerFunc) {
	m.handlers[event] = h
}

// Connect upgrades the request and attaches the new client to the manager
func (m *Manager) Connect(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Default().Printf("websocket upgrade failed: %v", err)
		return
	}

	c := newClient(conn)

	select {
	case m.register <- c:
	case <-m.done:
		conn.Close()
		return
	}

	go c.writePump(m)
	go c.readPump(m)
}

// Run dispatches events until ctx is cancelled
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)

	var deliveries <-chan Delivery
	if m.broker != nil {
		deliveries = m.broker.Deliveries()
	}

	for {
		select {
		case <-ctx.Done():
			for _, c := range m.clients {
				m.remove(c)
			}
			return ctx.Err()
		case c := <-m.register:
			m.clients[c.ID] = c
			log.Default().Printf("client connected: %s", c.ID)
		case c := <-m.unregister:
			if _, ok := m.clients[c.ID]; ok {
				m.remove(c)
				log.Default().Printf("client disconnected: %s", c.ID)
			}
		case in := <-m.inbound:
			m.dispatch(ctx, in)
		case d, ok := <-deliveries:
			if !ok {
				deliveries = nil
				continue
			}
			m.deliver(d)
		}
	}
}

func (m *Manager) dispatch(ctx context.Context, in inbound) {
	if _, ok := m.clients[in.client.ID]; !ok {
		return
	}

	h, ok := m.handlers[in.msg.Event]
	if !ok {
		return
	}

	h(ctx, in.client, in.msg.Data)
}

// remove drops the client from every group and closes its send queue
func (m *Manager) remove(c *Client) {
	for g := range c.groups {
		m.leave(c, g)
	}

	delete(m.clients, c.ID)
	close(c.send)
}

// Join adds the client to a transport group
func (m *Manager) Join(c *Client, group string) {
	members, ok := m.groups[group]
	if !ok {
		members = map[string]*Client{}
		m.groups[group] = members
	}

	members[c.ID] = c
	c.groups[group] = struct{}{}
}

func (m *Manager) leave(c *Client, group string) {
	delete(c.groups, group)

	members, ok := m.groups[group]
	if !ok {
		return
	}

	delete(members, c.ID)
	if len(members) == 0 {
		delete(m.groups, group)
	}
}

// Members returns the number of local clients in a group
func (m *Manager) Members(group string) int {
	return len(m.groups[group])
}

// Emit sends an event to a single client
func (m *Manager) Emit(c *Client, event relay.WSEventName, data any) {
	b, err := relay.NewWSMessage(event, data)
	if err != nil {
		log.Default().Println(err)
		return
	}

	m.write(c, b)
}

// EmitError reports err to a single client
func (m *Manager) EmitError(c *Client, err error) {
	m.Emit(c, relay.WSEventError, &relay.WSError{
		Kind:    relay.KindOf(err),
		Message: err.Error(),
	})
}

// Broadcast sends an event to every member of group except the client with
// the given id
func (m *Manager) Broadcast(ctx context.Context, group, except string, event relay.WSEventName, data any) {
	b, err := relay.NewWSMessage(event, data)
	if err != nil {
		log.Default().Println(err)
		return
	}

	d := Delivery{Group: group, Except: except, Payload: b}

	if m.broker == nil {
		m.deliver(d)
		return
	}

	err = m.broker.Publish(ctx, d)
	if err != nil {
		log.Default().Printf("failed to publish to %s: %v", group, err)
	}
}

func (m *Manager) deliver(d Delivery) {
	for id, c := range m.groups[d.Group] {
		if id == d.Except {
			continue
		}

		m.write(c, d.Payload)
	}
}

func (m *Manager) write(c *Client, b []byte) {
	if _, ok := m.clients[c.ID]; !ok {
		return
	}

	select {
	case c.send <- b:
	default:
		// the client is not draining its queue, let it go
		log.Default().Printf("dropping slow client: %s", c.ID)
		m.remove(c)
		c.conn.Close()
	}
}

package codesession

import (
	"context"
	"encoding/json"
	"log"

	"github.com/comunifi/droprelay/internal/ws"
	"github.com/comunifi/droprelay/pkg/relay"
)

type Handlers struct {
	reg *Registry
	m   *ws.Manager
}

func NewHandlers(reg *Registry, m *ws.Manager) *Handlers {
	return &Handlers{
		reg: reg,
		m:   m,
	}
}

// CreateSession creates a room and makes the requester its first member
func (h *Handlers) CreateSession(ctx context.Context, c *ws.Client, data json.RawMessage) {
	var roomID string
	if len(data) > 0 {
		id, err := relay.DecodeString(data)
		if err != nil {
			h.m.EmitError(c, err)
			return
		}
		roomID = id
	}

	roomID, err := h.reg.Create(ctx, roomID)
	if err != nil {
		h.m.EmitError(c, err)
		return
	}

	h.m.Join(c, Group(roomID))
	h.m.Emit(c, relay.WSEventCodeSessionCreated, roomID)

	log.Default().Printf("code room created: %s", roomID)
}

// JoinSession adds the requester to a room and sends it the current text
func (h *Handlers) JoinSession(ctx context.Context, c *ws.Client, data json.RawMessage) {
	roomID, err := relay.DecodeString(data)
	if err != nil {
		h.m.EmitError(c, err)
		return
	}

	text, err := h.reg.Text(ctx, roomID)
	if err != nil {
		h.m.EmitError(c, err)
		return
	}

	h.m.Join(c, Group(roomID))
	h.m.Emit(c, relay.WSEventCodeSessionJoined, nil)
	h.m.Emit(c, relay.WSEventCodeUpdate, text)

	log.Default().Printf("client %s joined code room: %s", c.ID, roomID)
}

// SendUpdate stores the new text and relays it to the other members
func (h *Handlers) SendUpdate(ctx context.Context, c *ws.Client, data json.RawMessage) {
	u, err := relay.ParseCodeUpdate(data)
	if err != nil {
		h.m.EmitError(c, err)
		return
	}

	err = h.reg.Update(ctx, u.RoomCode, u.Code)
	if err != nil {
		h.m.EmitError(c, err)
		return
	}

	h.m.Broadcast(ctx, Group(u.RoomCode), c.ID, relay.WSEventCodeUpdate, u.Code)
}

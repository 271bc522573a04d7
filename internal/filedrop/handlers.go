package filedrop

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

type roomFiles struct {
	Files []relay.File `json:"files"`
}

// CreateRoom stores the bundle and replies with its code
func (h *Handlers) CreateRoom(ctx context.Context, c *ws.Client, data json.RawMessage) {
	bundle, err := relay.ParseBundle(data)
	if err != nil {
		h.m.EmitError(c, err)
		return
	}

	code, err := h.reg.Create(ctx, bundle.Files)
	if err != nil {
		log.Default().Printf("failed to create file room: %v", err)
		h.m.EmitError(c, err)
		return
	}

	h.m.Join(c, Group(code))
	h.m.Emit(c, relay.WSEventRoomCreated, code)

	log.Default().Printf("file room created: %s (%d files)", code, len(bundle.Files))
}

// JoinRoom hands the bundle of a code to the requesting client only
func (h *Handlers) JoinRoom(ctx context.Context, c *ws.Client, data json.RawMessage) {
	code, err := relay.DecodeString(data)
	if err != nil {
		h.m.EmitError(c, err)
		return
	}

	code = NormalizeCode(code)

	files, err := h.reg.Get(ctx, code)
	if err != nil {
		h.m.EmitError(c, err)
		return
	}

	h.m.Join(c, Group(code))
	h.m.Emit(c, relay.WSEventFileReceived, &roomFiles{Files: files})

	log.Default().Printf("client %s joined file room: %s", c.ID, code)
}

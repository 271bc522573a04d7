package relay

import (
	"encoding/json"
	"fmt"
)

type WSEventName string

// client -> server
const (
	WSEventCreateRoom        WSEventName = "create_room"
	WSEventJoinRoom          WSEventName = "join_room"
	WSEventCreateCodeSession WSEventName = "create_code_session"
	WSEventJoinCodeSession   WSEventName = "join_code_session"
	WSEventSendCodeUpdate    WSEventName = "send_code_update"
)

// server -> client
const (
	WSEventRoomCreated        WSEventName = "room_created"
	WSEventFileReceived       WSEventName = "file_received"
	WSEventError              WSEventName = "error"
	WSEventCodeSessionCreated WSEventName = "code_session_created"
	WSEventCodeSessionJoined  WSEventName = "code_session_joined"
	WSEventCodeUpdate         WSEventName = "code_update"
)

type WSMessage struct {
	Event WSEventName     `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type WSError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewWSMessage encodes data as the payload of a named event
func NewWSMessage(event WSEventName, data any) ([]byte, error) {
	m := WSMessage{Event: event}

	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", event, err)
		}

		m.Data = b
	}

	return json.Marshal(&m)
}

// ParseWSMessage decodes a frame into its envelope
func ParseWSMessage(b []byte) (*WSMessage, error) {
	var m WSMessage
	err := json.Unmarshal(b, &m)
	if err != nil {
		return nil, err
	}

	if m.Event == "" {
		return nil, fmt.Errorf("%w: missing event name", ErrBadRequest)
	}

	return &m, nil
}

// DecodeString decodes a bare JSON string payload
func DecodeString(data json.RawMessage) (string, error) {
	var s string
	if len(data) == 0 {
		return "", fmt.Errorf("%w: missing payload", ErrBadRequest)
	}

	err := json.Unmarshal(data, &s)
	if err != nil {
		return "", fmt.Errorf("%w: expected a string payload", ErrBadRequest)
	}

	return s, nil
}

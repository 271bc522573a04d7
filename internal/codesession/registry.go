package codesession

import (
	"context"
	"errors"
	"fmt"

	"github.com/comunifi/droprelay/internal/store"
	"github.com/comunifi/droprelay/pkg/common"
	"github.com/comunifi/droprelay/pkg/relay"
)

const (
	Placeholder = "// Start coding...\n"

	RoomIDLength = 6

	keyPrefix = "code:"
)

// Registry holds the text of every shared document. A room exists once it
// has been created and until it is evicted by the store.
type Registry struct {
	store   store.Store
	newCode func() (string, error)
}

func NewRegistry(s store.Store) *Registry {
	return &Registry{
		store: s,
		newCode: func() (string, error) {
			return common.RandomCode(RoomIDLength)
		},
	}
}

// Create initializes the room with the placeholder text. An empty roomID
// gets a generated one. Creating an existing room fails. Room ids are used
// verbatim.
func (r *Registry) Create(ctx context.Context, roomID string) (string, error) {
	var err error
	if roomID == "" {
		roomID, err = r.newCode()
		if err != nil {
			return "", err
		}
	}

	ok, err := r.store.Create(ctx, keyPrefix+roomID, []byte(Placeholder))
	if err != nil {
		return "", err
	}

	if !ok {
		return "", fmt.Errorf("%w: room %s already exists, please generate a new one", relay.ErrAlreadyExists, roomID)
	}

	return roomID, nil
}

// Text returns the current text of a room
func (r *Registry) Text(ctx context.Context, roomID string) (string, error) {
	b, err := r.store.Get(ctx, keyPrefix+roomID)
	if errors.Is(err, relay.ErrNotFound) {
		return "", fmt.Errorf("%w: room %s has not been created yet", relay.ErrNotFound, roomID)
	}
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Update replaces the text of an existing room wholesale
func (r *Registry) Update(ctx context.Context, roomID, text string) error {
	ok, err := r.store.Replace(ctx, keyPrefix+roomID, []byte(text))
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: room %s has not been created yet", relay.ErrNotFound, roomID)
	}

	return nil
}

// Group is the transport group of a code room
func Group(roomID string) string {
	return keyPrefix + roomID
}

package filedrop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/comunifi/droprelay/internal/store"
	"github.com/comunifi/droprelay/pkg/common"
	"github.com/comunifi/droprelay/pkg/relay"
)

const (
	CodeLength = 6

	keyPrefix   = "file:"
	maxAttempts = 5
)

var ErrCodesExhausted = errors.New("could not allocate a unique room code")

// Registry maps short codes to file bundles. Bundles are never modified
// after creation.
type Registry struct {
	store   store.Store
	newCode func() (string, error)
}

func NewRegistry(s store.Store) *Registry {
	return &Registry{
		store: s,
		newCode: func() (string, error) {
			return common.RandomCode(CodeLength)
		},
	}
}

// NormalizeCode trims and uppercases a user supplied code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create stores the bundle under a fresh code. A code that is already taken
// is never overwritten, a new one is drawn instead.
func (r *Registry) Create(ctx context.Context, files []relay.File) (string, error) {
	if files == nil {
		files = []relay.File{}
	}

	b, err := json.Marshal(files)
	if err != nil {
		return "", err
	}

	for i := 0; i < maxAttempts; i++ {
		code, err := r.newCode()
		if err != nil {
			return "", err
		}

		ok, err := r.store.Create(ctx, keyPrefix+code, b)
		if err != nil {
			return "", err
		}

		if ok {
			return code, nil
		}
	}

	return "", ErrCodesExhausted
}

// Get returns the bundle stored under code
func (r *Registry) Get(ctx context.Context, code string) ([]relay.File, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: invalid key", relay.ErrNotFound)
	}

	b, err := r.store.Get(ctx, keyPrefix+code)
	if errors.Is(err, relay.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid key", relay.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var files []relay.File
	err = json.Unmarshal(b, &files)
	if err != nil {
		return nil, fmt.Errorf("corrupted bundle %s: %w", code, err)
	}

	return files, nil
}

// Group is the transport group of a file room
func Group(code string) string {
	return keyPrefix + code
}

package relay

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
)

type ErrorKind string

const (
	ErrorKindNotFound      ErrorKind = "not_found"
	ErrorKindAlreadyExists ErrorKind = "already_exists"
	ErrorKindBadRequest    ErrorKind = "bad_request"
	ErrorKindInternal      ErrorKind = "internal"
)

// KindOf maps an error to the kind reported to clients
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrorKindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return ErrorKindAlreadyExists
	case errors.Is(err, ErrBadRequest):
		return ErrorKindBadRequest
	default:
		return ErrorKindInternal
	}
}

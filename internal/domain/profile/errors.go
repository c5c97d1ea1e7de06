package profile

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrBadRequest        = errors.New("bad request")
	ErrConflict          = errors.New("conflict")
	ErrCannotArchiveSelf = errors.New("cannot archive yourself")
)

func IsErrUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, ErrCannotArchiveSelf)
}

func IsErrConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

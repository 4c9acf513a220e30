package service

import (
	"errors"

	"github.com/sakif/globoclima/internal/apperror"
)

// Small helpers over errors.Is so the services read at the level of
// outcomes rather than sentinel plumbing.

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, apperror.ErrConflict)
}

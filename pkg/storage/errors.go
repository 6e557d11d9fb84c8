package storage

import "github.com/pkg/errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownGenesis = errors.New("ancestry does not start at genesis")
	ErrHasherMismatch = errors.New("store and validator hashers differ")
)

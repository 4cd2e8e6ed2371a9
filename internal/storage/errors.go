package storage

import "errors"

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrInvalidKey    = errors.New("invalid storage key")
	ErrClosed        = errors.New("storage backend closed")
)

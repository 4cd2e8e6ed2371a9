package directory

import "errors"

var (
	ErrNotFound  = errors.New("shortcut not found")
	ErrKeyExists = errors.New("shortcut key already exists")
	ErrEmptyKey  = errors.New("shortcut key is empty")
	ErrCorrupt   = errors.New("stored shortcuts are malformed")
)

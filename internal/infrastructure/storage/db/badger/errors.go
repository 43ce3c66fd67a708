package dbbadger

import "errors"

var (
	// ErrPoolInvalidRequest is returned for a nil pool, or by an update whose
	// callback hands back no pool or a pool with another id.
	ErrPoolInvalidRequest = errors.New("requested pool is null or has a different id")
)

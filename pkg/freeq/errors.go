package freeq

import "errors"

var (
	// ErrEphemeralLimit is returned when a ceiling setter is called on an
	// ephemeral-flavor queue. Ephemeral queues are drained wholesale at
	// loop boundaries and do not enforce ceilings.
	ErrEphemeralLimit = errors.New("ceilings are not supported on ephemeral queues")
)

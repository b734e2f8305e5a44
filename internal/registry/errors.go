package registry

import "errors"

// ErrInvalidTransition reports a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

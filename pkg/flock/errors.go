package flock

import "errors"

// ErrInvalidConfiguration is returned when a flock cannot be built or retuned
// from the given parameters. It is the only error the simulation core produces.
var ErrInvalidConfiguration = errors.New("invalid configuration")

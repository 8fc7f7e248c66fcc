package physics

import "errors"

var (
	ErrInvalidMass      = errors.New("physics: mass must be positive for a movable body")
	ErrNegativeFriction = errors.New("physics: friction coefficients must be non-negative")
	ErrInvalidSize      = errors.New("physics: body extents must be positive")
)

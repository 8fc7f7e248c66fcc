package physics

import "github.com/jakecoffman/cp"

// Context carries the simulation-wide tuning that every body step reads.
// It is passed explicitly instead of living in package state so two
// simulations never share gravity or debug flags.
type Context struct {
	Gravity cp.Vector
	// AirResistance scales velocity once per tick. Values slightly below 1
	// give every body a terminal velocity.
	AirResistance float64
	// MinMoveVelocity is the per-axis speed a body needs before its
	// position is integrated on that axis.
	MinMoveVelocity float64
	// RestVelocity is the floor below which velocity snaps to zero.
	RestVelocity float64
	Debug        bool
}

const (
	DefaultGravityY        = 98.0
	DefaultAirResistance   = 0.99
	DefaultMinMoveVelocity = 0.01
	DefaultRestVelocity    = 0.005
)

func DefaultContext() Context {
	return Context{
		Gravity:         cp.Vector{X: 0, Y: DefaultGravityY},
		AirResistance:   DefaultAirResistance,
		MinMoveVelocity: DefaultMinMoveVelocity,
		RestVelocity:    DefaultRestVelocity,
	}
}

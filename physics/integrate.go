package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Step advances the body by dt seconds.
//
// Net force is the applied Force, plus static friction when the body is
// horizontally at rest or dynamic friction otherwise, plus gravity. Position
// only moves on axes that are not static and whose speed clears the move
// threshold. Force and both friction accumulators are cleared afterwards.
func (b *Body) Step(dt float64, ctx *Context) {
	if b == nil || ctx == nil || dt <= 0 {
		return
	}

	net := b.Force
	if b.Velocity.X == 0 {
		net = net.Add(staticFriction(b.ActiveStatic, b.Force))
	} else {
		net = net.Add(b.ActiveDynamic)
	}
	if !b.IgnoreGravity {
		net = net.Add(ctx.Gravity)
	}

	b.Acceleration = net.Mult(1 / b.mass)
	b.Velocity = b.Velocity.Add(b.Acceleration.Mult(dt)).Mult(ctx.AirResistance)

	if b.StaticX {
		b.Velocity.X = 0
	} else if math.Abs(b.Velocity.X) > ctx.MinMoveVelocity {
		b.Position.X += b.Velocity.X * dt
	}
	if b.StaticY {
		b.Velocity.Y = 0
	} else if math.Abs(b.Velocity.Y) > ctx.MinMoveVelocity {
		b.Position.Y += b.Velocity.Y * dt
	}

	b.Force = cp.Vector{}
	b.ActiveStatic = cp.Vector{}
	b.ActiveDynamic = cp.Vector{}

	if math.Abs(b.Velocity.X) < ctx.RestVelocity {
		b.Velocity.X = 0
	}
	if math.Abs(b.Velocity.Y) < ctx.RestVelocity {
		b.Velocity.Y = 0
	}
}

// staticFriction turns the accumulated static term into a force that
// opposes the applied force on each axis. It can hold a body in place but
// never push it backwards.
func staticFriction(active, applied cp.Vector) cp.Vector {
	return cp.Vector{
		X: resist(active.X, applied.X),
		Y: resist(active.Y, applied.Y),
	}
}

func resist(friction, applied float64) float64 {
	if friction == 0 || applied == 0 {
		return 0
	}
	mag := math.Min(math.Abs(friction), math.Abs(applied))
	if applied > 0 {
		return -mag
	}
	return mag
}

package ai

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/common"
	"github.com/milk9111/climber/physics"
)

// samePlatform walks along one platform, braking when the stopping distance
// implied by the current speed would overshoot the target.
func (c *Controller) samePlatform(tgtPos cp.Vector) {
	tgtPlat := c.graph.Platform(c.target)
	if c.platform != nil && c.platform != tgtPlat {
		c.lose("left target platform")
		return
	}

	leniency := c.cfg.Leniency
	dx := tgtPos.X - c.body.Center().X
	if next, ok := c.path.Peek(); ok && c.graph.Platform(next) == tgtPlat {
		if nextPos, ok := c.graph.Position(next); ok && common.Sign(nextPos.X-tgtPos.X) == common.Sign(dx) {
			leniency *= c.cfg.CarryLeniency
		}
	}
	c.steer(dx, leniency, tgtPlat)
}

// steer moves toward dx, reversing the force once the braking distance
// divided by leniency exceeds what is left.
func (c *Controller) steer(dx, leniency float64, footing *physics.Body) {
	if math.Abs(dx) < c.cfg.MinDistance {
		c.brake()
		return
	}
	vx := c.body.Velocity.X
	if vx != 0 && common.Sign(vx) == common.Sign(dx) {
		if math.Abs(dx)*leniency < c.stoppingDistance(vx, footing) {
			c.brake()
			return
		}
	}
	c.moveToward(dx)
}

// stoppingDistance is v^2 / 2a where a is the deceleration from reversing
// the drive force plus dynamic friction of the footing. A body at rest
// needs no distance.
func (c *Controller) stoppingDistance(vx float64, footing *physics.Body) float64 {
	if vx == 0 {
		return 0
	}
	friction := 0.0
	if footing != nil {
		friction = footing.Friction.Dynamic
	}
	decel := (c.cfg.Speed + friction*math.Abs(vx)) / c.body.Mass()
	if decel <= 0 {
		return 0
	}
	return vx * vx / (2 * decel)
}

func (c *Controller) moveToward(dx float64) {
	switch {
	case dx >= c.cfg.MinDistance:
		c.MoveRight()
	case dx <= -c.cfg.MinDistance:
		c.MoveLeft()
	default:
		c.body.Force.X = 0
	}
}

// brake pushes against the current horizontal velocity.
func (c *Controller) brake() {
	switch vx := c.body.Velocity.X; {
	case vx > 0:
		c.MoveLeft()
	case vx < 0:
		c.MoveRight()
	default:
		c.body.Force.X = 0
	}
}

// horizontalHop jumps across a gap to a platform at about the same height.
func (c *Controller) horizontalHop(tgtPos cp.Vector) {
	tgtPlat := c.graph.Platform(c.target)
	if tgtPlat != nil && c.body.Top() > tgtPlat.Bottom() {
		c.lose("fell below target platform")
		return
	}
	if c.jumped && c.grounded {
		if c.platform == tgtPlat {
			c.land(tgtPlat)
			return
		}
		c.lose("landed on wrong platform")
		return
	}

	if c.grounded && !c.jumped {
		c.Jump()
	}
	c.moveToward(tgtPos.X - c.body.Center().X)
}

// land switches to walking the platform the agent has just landed on,
// seeding a synthetic node at the landing spot as the previous node.
func (c *Controller) land(platform *physics.Body) {
	c.previous = c.synthesize(c.body.Center(), platform)
	c.sub = SamePlatform
	c.jumped = false
	c.dropped = false
}

// verticalHop climbs to a higher platform or drops to a lower one.
func (c *Controller) verticalHop(tgtPos cp.Vector, dt float64) {
	_, prevPlat := c.nodeOrAgent(c.previous)
	tgtPlat := c.graph.Platform(c.target)

	if c.grounded && c.platform == tgtPlat {
		if moving(tgtPlat) {
			// A moving footing shifts the route; re-select from here.
			c.setState(SelectingNode)
			return
		}
		c.land(tgtPlat)
		return
	}
	if c.grounded && c.platform != prevPlat {
		c.lose("supported by an unexpected platform")
		return
	}
	if !c.grounded && !c.jumped && !c.dropped && prevPlat != nil && c.body.Top() > prevPlat.Bottom() {
		c.lose("fell without jumping")
		return
	}

	center := c.body.Center()
	if tgtPos.Y < center.Y {
		c.climb(tgtPos, tgtPlat, dt)
		return
	}
	c.drop(tgtPos, tgtPlat)
}

func (c *Controller) climb(tgtPos cp.Vector, tgtPlat *physics.Body, dt float64) {
	center := c.body.Center()

	if c.jumped {
		if c.grounded && c.body.Velocity.Y >= 0 {
			// Fell back onto the takeoff platform; try the jump again.
			c.jumped = false
			return
		}
		if tgtPlat != nil && c.overSurface(tgtPlat) && (c.body.Velocity.Y >= 0 || c.body.Bottom() <= tgtPlat.Top()) {
			c.steer(tgtPos.X-center.X, c.cfg.Leniency, nil)
			return
		}
		c.moveToward(tgtPos.X - center.X)
		return
	}

	takeoff := c.takeoffX(tgtPlat, tgtPos)
	off := takeoff - center.X
	if math.Abs(off) <= c.cfg.JumpRange {
		if c.Jump() {
			c.waitTime = 0
		}
		c.moveToward(tgtPos.X - center.X)
		return
	}

	if moving(tgtPlat) && !c.reachableOnFooting(takeoff) {
		c.waitTime += dt
		if c.waitTime > c.cfg.MaxWait {
			c.lose("moving platform never lined up")
			return
		}
		c.ride()
		return
	}
	c.steer(off, c.cfg.Leniency, c.platform)
}

// takeoffX is just outside whichever edge of the target platform is closer,
// preferring a spot the agent can still stand on.
func (c *Controller) takeoffX(tgtPlat *physics.Body, tgtPos cp.Vector) float64 {
	if tgtPlat == nil {
		return tgtPos.X
	}
	center := c.body.Center().X
	left := tgtPlat.Left() - c.cfg.JumpEdgeOffset
	right := tgtPlat.Right() + c.cfg.JumpEdgeOffset
	near, far := left, right
	if math.Abs(right-center) < math.Abs(left-center) {
		near, far = right, left
	}
	if c.reachableOnFooting(near) || !c.reachableOnFooting(far) {
		return near
	}
	return far
}

// reachableOnFooting reports whether x lies on the platform the agent
// stands on, leaving room for the agent's half width.
func (c *Controller) reachableOnFooting(x float64) bool {
	if c.platform == nil {
		return true
	}
	half := c.body.HalfExtents().X
	return x >= c.platform.Left()+half && x <= c.platform.Right()-half
}

// ride matches the footing's horizontal velocity so the agent keeps its
// place on a moving platform.
func (c *Controller) ride() {
	want := 0.0
	if c.platform != nil {
		want = c.platform.Velocity.X
	}
	diff := want - c.body.Velocity.X
	if math.Abs(diff) < c.cfg.MinDistance {
		c.body.Force.X = 0
		return
	}
	c.moveToward(diff)
}

func (c *Controller) drop(tgtPos cp.Vector, tgtPlat *physics.Body) {
	center := c.body.Center()
	c.dropped = true

	if c.grounded && c.platform != nil && c.platform != tgtPlat {
		// Walk off whichever edge faces the target.
		half := c.body.HalfExtents().X
		exit := c.platform.Right() + half + 1
		if tgtPos.X < c.platform.Center().X {
			exit = c.platform.Left() - half - 1
		}
		if tgtPos.X < c.platform.Left() || tgtPos.X > c.platform.Right() {
			exit = tgtPos.X
		}
		c.moveToward(exit - center.X)
		return
	}
	if tgtPlat != nil && c.overSurface(tgtPlat) {
		c.steer(tgtPos.X-center.X, c.cfg.Leniency, nil)
		return
	}
	c.moveToward(tgtPos.X - center.X)
}

// overSurface reports whether the agent is horizontally within platform.
func (c *Controller) overSurface(platform *physics.Body) bool {
	x := c.body.Center().X
	return x >= platform.Left() && x <= platform.Right()
}

// moving reports whether a platform is being carried sideways.
func moving(platform *physics.Body) bool {
	return platform != nil && !platform.StaticX && platform.Velocity.X != 0
}

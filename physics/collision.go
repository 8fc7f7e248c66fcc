package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// separationSlop is added to the correction when both bodies move so the
// split never leaves a rounding-sized overlap.
const separationSlop = 1e-9

// DispatchFunc receives every resolved contact once per participant.
type DispatchFunc func(self *Body, c *Contact)

// CollisionSystem detects and resolves AABB overlaps for a set of bodies.
type CollisionSystem struct {
	Dispatch DispatchFunc

	unique   []*Body
	seen     map[*Body]struct{}
	contacts []Contact
}

func NewCollisionSystem(dispatch DispatchFunc) *CollisionSystem {
	return &CollisionSystem{
		Dispatch: dispatch,
		seen:     make(map[*Body]struct{}),
	}
}

// Step runs one all-pairs pass. It returns the contacts resolved this tick;
// the slice is reused by the next call.
func (s *CollisionSystem) Step(bodies []*Body) []Contact {
	if s == nil {
		return nil
	}
	if s.seen == nil {
		s.seen = make(map[*Body]struct{})
	}

	s.unique = s.unique[:0]
	clear(s.seen)
	for _, b := range bodies {
		if b == nil {
			continue
		}
		if _, dup := s.seen[b]; dup {
			continue
		}
		s.seen[b] = struct{}{}
		s.unique = append(s.unique, b)
	}

	s.contacts = s.contacts[:0]
	for i := 0; i < len(s.unique); i++ {
		for j := i + 1; j < len(s.unique); j++ {
			a, b := s.unique[i], s.unique[j]
			if a.Role == b.Role {
				continue
			}
			if c, ok := Detect(a, b); ok {
				s.contacts = append(s.contacts, c)
			}
		}
	}

	// Earlier resolutions may already have pushed a pair apart. Such a pair
	// keeps its contact for friction and callbacks but is not corrected again.
	resolved := s.contacts[:0]
	for _, c := range s.contacts {
		if fresh, ok := Detect(c.A, c.B); ok {
			c = fresh
		} else {
			c.Penetration = cp.Vector{}
		}
		if !Resolve(&c) {
			continue
		}
		resolved = append(resolved, c)
	}
	s.contacts = resolved

	if s.Dispatch != nil {
		for i := range s.contacts {
			c := &s.contacts[i]
			s.Dispatch(c.A, c)
			s.Dispatch(c.B, c)
		}
	}
	return s.contacts
}

// Contacts returns the contacts from the most recent Step.
func (s *CollisionSystem) Contacts() []Contact {
	if s == nil {
		return nil
	}
	return s.contacts
}

// Resolve applies the restitution impulse, positional correction and
// friction accumulation for c. It reports false when neither body can move
// along the normal, in which case nothing is changed.
func Resolve(c *Contact) bool {
	if c == nil || c.A == nil || c.B == nil {
		return false
	}
	a, b := c.A, c.B
	n := c.Normal

	invA := a.InverseMass().Dot(cp.Vector{X: math.Abs(n.X), Y: math.Abs(n.Y)})
	invB := b.InverseMass().Dot(cp.Vector{X: math.Abs(n.X), Y: math.Abs(n.Y)})
	invSum := invA + invB
	if invSum == 0 {
		return false
	}

	rv := b.Velocity.Sub(a.Velocity)
	along := rv.Dot(n)
	// Separating pairs still get corrected, they just keep their velocity.
	if along < 0 {
		e := cp.Clamp(a.Bounciness*b.Bounciness, 0, 1)
		j := -(1 + e) * along / invSum
		impulse := n.Mult(j)
		a.Velocity = a.Velocity.Sub(impulse.Mult(invA))
		b.Velocity = b.Velocity.Add(impulse.Mult(invB))
	}

	if depth := c.Depth(); depth > 0 {
		switch {
		case invB == 0:
			separate(a, b, n)
		case invA == 0:
			separate(b, a, n.Neg())
		default:
			share := (depth + separationSlop) / invSum
			a.Position = a.Position.Sub(n.Mult(share * invA))
			b.Position = b.Position.Add(n.Mult(share * invB))
			if Overlaps(a, b) {
				separate(a, b, n)
			}
		}
	}

	accumulateFriction(a, b, c.NormalFor(a))
	accumulateFriction(b, a, c.NormalFor(b))
	return true
}

// separate puts mov flush against fixed on the normal axis. n points from
// mov toward fixed. x-w+w does not always round back to x, so the far edge
// is stepped down an ulp at a time until it no longer crosses.
func separate(mov, fixed *Body, n cp.Vector) {
	switch {
	case n.Y > 0:
		mov.Position.Y = fixed.Top() - mov.Size.Y
		for mov.Bottom() > fixed.Top() {
			mov.Position.Y = math.Nextafter(mov.Position.Y, math.Inf(-1))
		}
	case n.Y < 0:
		mov.Position.Y = fixed.Bottom()
	case n.X > 0:
		mov.Position.X = fixed.Left() - mov.Size.X
		for mov.Right() > fixed.Left() {
			mov.Position.X = math.Nextafter(mov.Position.X, math.Inf(-1))
		}
	case n.X < 0:
		mov.Position.X = fixed.Right()
	}
}

// accumulateFriction adds the friction other exerts on self. The static
// term lies along the contact tangent; its sign is settled against the
// applied force when the body next steps.
func accumulateFriction(self, other *Body, normal cp.Vector) {
	self.ActiveDynamic = self.ActiveDynamic.Add(self.Velocity.Mult(-other.Friction.Dynamic))
	self.ActiveStatic = self.ActiveStatic.Add(normal.Perp().Mult(-other.Friction.Static))
}

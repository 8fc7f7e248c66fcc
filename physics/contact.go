package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Contact describes one overlapping pair for a single tick. Normal is a unit
// axis vector pointing from A toward B; Penetration holds the signed overlap
// on both axes.
type Contact struct {
	A, B        *Body
	Point       cp.Vector
	Normal      cp.Vector
	Penetration cp.Vector
}

// Other returns the participant that is not self.
func (c *Contact) Other(self *Body) *Body {
	if c == nil {
		return nil
	}
	if c.A == self {
		return c.B
	}
	return c.A
}

// NormalFor returns the contact normal as seen from self, pointing toward
// the other body. A positive Y means the other body is below self.
func (c *Contact) NormalFor(self *Body) cp.Vector {
	if c == nil {
		return cp.Vector{}
	}
	if c.B == self {
		return c.Normal.Neg()
	}
	return c.Normal
}

// Depth is the magnitude of the overlap along the contact normal.
func (c *Contact) Depth() float64 {
	if c.Normal.X != 0 {
		return math.Abs(c.Penetration.X)
	}
	return math.Abs(c.Penetration.Y)
}

// Overlaps reports strict AABB overlap. Boxes that only share an edge do not
// overlap, so a resolved pair stays separated.
func Overlaps(a, b *Body) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Left() < b.Right() && b.Left() < a.Right() &&
		a.Top() < b.Bottom() && b.Top() < a.Bottom()
}

// Detect builds the contact for an overlapping pair. The axis with the
// smaller absolute penetration becomes the normal; Y wins exact ties.
func Detect(a, b *Body) (Contact, bool) {
	if !Overlaps(a, b) {
		return Contact{}, false
	}

	d := b.Center().Sub(a.Center())
	ha, hb := a.HalfExtents(), b.HalfExtents()
	overlapX := ha.X + hb.X - math.Abs(d.X)
	overlapY := ha.Y + hb.Y - math.Abs(d.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return Contact{}, false
	}

	sx, sy := axisSign(d.X), axisSign(d.Y)
	c := Contact{
		A:           a,
		B:           b,
		Penetration: cp.Vector{X: sx * overlapX, Y: sy * overlapY},
	}

	if overlapX < overlapY {
		c.Normal = cp.Vector{X: sx}
		edge := a.Right()
		if sx < 0 {
			edge = a.Left()
		}
		top := math.Max(a.Top(), b.Top())
		bottom := math.Min(a.Bottom(), b.Bottom())
		c.Point = cp.Vector{X: edge, Y: (top + bottom) / 2}
	} else {
		c.Normal = cp.Vector{Y: sy}
		edge := a.Bottom()
		if sy < 0 {
			edge = a.Top()
		}
		left := math.Max(a.Left(), b.Left())
		right := math.Min(a.Right(), b.Right())
		c.Point = cp.Vector{X: (left + right) / 2, Y: edge}
	}
	return c, true
}

// axisSign treats a zero delta as positive so a normal is never zero.
func axisSign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

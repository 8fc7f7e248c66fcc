package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// Role tags a body for pair filtering and callback routing.
type Role uint8

const (
	RoleNone Role = iota
	RoleAgent
	RolePlatform
)

func (r Role) String() string {
	switch r {
	case RoleAgent:
		return "agent"
	case RolePlatform:
		return "platform"
	default:
		return "none"
	}
}

// Friction holds the coefficients a body exposes to whatever touches it.
type Friction struct {
	Static  float64 `yaml:"static"`
	Dynamic float64 `yaml:"dynamic"`
}

// BodyConfig is the construction input for NewBody. Scale and Rotation are
// carried for renderers only.
type BodyConfig struct {
	Position      cp.Vector
	Size          cp.Vector
	Scale         cp.Vector
	Rotation      float64
	Mass          float64
	StaticX       bool
	StaticY       bool
	Friction      Friction
	Bounciness    float64
	IgnoreGravity bool
	Role          Role
}

// Body is the physical state of one entity. Coordinates are screen space:
// +Y points down and Position is the top-left corner of the box.
type Body struct {
	Position     cp.Vector
	Velocity     cp.Vector
	Acceleration cp.Vector
	Force        cp.Vector
	Size         cp.Vector

	Scale    cp.Vector
	Rotation float64

	StaticX       bool
	StaticY       bool
	IgnoreGravity bool
	Friction      Friction
	Bounciness    float64
	Role          Role

	// Friction accumulated by the collision system since the last step.
	ActiveStatic  cp.Vector
	ActiveDynamic cp.Vector

	mass float64
}

func NewBody(cfg BodyConfig) (*Body, error) {
	if cfg.Size.X <= 0 || cfg.Size.Y <= 0 {
		return nil, fmt.Errorf("physics: new body size %v: %w", cfg.Size, ErrInvalidSize)
	}
	if cfg.Friction.Static < 0 || cfg.Friction.Dynamic < 0 {
		return nil, fmt.Errorf("physics: new body friction %+v: %w", cfg.Friction, ErrNegativeFriction)
	}
	mass := cfg.Mass
	if mass <= 0 {
		if !cfg.StaticX || !cfg.StaticY {
			return nil, fmt.Errorf("physics: new %s body mass %v: %w", cfg.Role, cfg.Mass, ErrInvalidMass)
		}
		mass = 1
	}
	scale := cfg.Scale
	if scale == (cp.Vector{}) {
		scale = cp.Vector{X: 1, Y: 1}
	}
	return &Body{
		Position:      cfg.Position,
		Size:          cfg.Size,
		Scale:         scale,
		Rotation:      cfg.Rotation,
		StaticX:       cfg.StaticX,
		StaticY:       cfg.StaticY,
		IgnoreGravity: cfg.IgnoreGravity,
		Friction:      cfg.Friction,
		Bounciness:    cfg.Bounciness,
		Role:          cfg.Role,
		mass:          mass,
	}, nil
}

func (b *Body) Mass() float64 {
	if b == nil {
		return 0
	}
	return b.mass
}

// SetMass replaces the mass, keeping the positive-mass invariant.
func (b *Body) SetMass(m float64) error {
	if b == nil {
		return nil
	}
	if m <= 0 {
		return fmt.Errorf("physics: set mass %v: %w", m, ErrInvalidMass)
	}
	b.mass = m
	return nil
}

// InverseMass returns the per-axis inverse mass. A static axis is
// immovable and reports zero.
func (b *Body) InverseMass() cp.Vector {
	if b == nil {
		return cp.Vector{}
	}
	inv := 1 / b.mass
	out := cp.Vector{X: inv, Y: inv}
	if b.StaticX {
		out.X = 0
	}
	if b.StaticY {
		out.Y = 0
	}
	return out
}

// Bounds returns the box as a cp.BB. In screen space B holds the top edge
// and T the bottom edge, so B <= T like cp expects.
func (b *Body) Bounds() cp.BB {
	return cp.BB{
		L: b.Position.X,
		B: b.Position.Y,
		R: b.Position.X + b.Size.X,
		T: b.Position.Y + b.Size.Y,
	}
}

func (b *Body) Center() cp.Vector {
	return b.Position.Add(b.Size.Mult(0.5))
}

func (b *Body) HalfExtents() cp.Vector {
	return b.Size.Mult(0.5)
}

func (b *Body) Left() float64   { return b.Position.X }
func (b *Body) Right() float64  { return b.Position.X + b.Size.X }
func (b *Body) Top() float64    { return b.Position.Y }
func (b *Body) Bottom() float64 { return b.Position.Y + b.Size.Y }

// Contains reports whether p lies inside the box, edges included.
func (b *Body) Contains(p cp.Vector) bool {
	if b == nil {
		return false
	}
	return b.Bounds().ContainsVect(p)
}

func (b *Body) Static() bool {
	return b != nil && b.StaticX && b.StaticY
}

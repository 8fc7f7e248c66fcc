package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/ai"
)

type BehaviorKind int

const (
	BehaviorStatic BehaviorKind = iota
	BehaviorMoving
	BehaviorFalling
	BehaviorSpring
	BehaviorAgent
)

func (k BehaviorKind) String() string {
	switch k {
	case BehaviorStatic:
		return "static"
	case BehaviorMoving:
		return "moving"
	case BehaviorFalling:
		return "falling"
	case BehaviorSpring:
		return "spring"
	case BehaviorAgent:
		return "agent"
	default:
		return "unknown"
	}
}

// ParseBehaviorKind maps a level/prefab name to a kind.
func ParseBehaviorKind(s string) (BehaviorKind, bool) {
	for k := BehaviorStatic; k <= BehaviorAgent; k++ {
		if k.String() == s {
			return k, true
		}
	}
	if s == "" {
		return BehaviorStatic, true
	}
	return BehaviorStatic, false
}

// Moving shuttles a platform horizontally between Left and Right, both
// measured on the body's left edge.
type Moving struct {
	Left      float64
	Right     float64
	Speed     float64
	Direction float64
}

// Falling drops a platform Delay seconds after something lands on it.
type Falling struct {
	Delay     float64
	Amplitude float64
	Frequency float64
	Elapsed   float64
	OriginX   float64
	Triggered bool
	Fallen    bool
}

// Spring pulls a platform back to Anchor along Y.
type Spring struct {
	Anchor    cp.Vector
	Stiffness float64
	Damping   float64
}

type Agent struct {
	Controller *ai.Controller
}

// Behavior is the per-tick variant of an entity. Only the field matching
// Kind is set.
type Behavior struct {
	Kind    BehaviorKind
	Moving  *Moving
	Falling *Falling
	Spring  *Spring
	Agent   *Agent
}

var BehaviorComponent = NewComponent[Behavior]()

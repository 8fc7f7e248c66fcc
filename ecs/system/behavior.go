package system

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/waypoint"
)

// BehaviorSystem runs each entity's behavior variant: platforms move,
// shake, fall or spring back and agents think.
type BehaviorSystem struct {
	Graph *waypoint.Graph
	DT    float64
}

func NewBehaviorSystem(graph *waypoint.Graph, dt float64) *BehaviorSystem {
	return &BehaviorSystem{Graph: graph, DT: dt}
}

func (s *BehaviorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.BehaviorComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, b *component.Behavior) {
		if pb.Body == nil {
			return
		}
		switch b.Kind {
		case component.BehaviorMoving:
			updateMoving(pb.Body, b.Moving)
		case component.BehaviorFalling:
			s.updateFalling(w, e, pb.Body, b.Falling)
		case component.BehaviorSpring:
			updateSpring(pb.Body, b.Spring)
		case component.BehaviorAgent:
			if b.Agent != nil {
				s.think(w, e, b.Agent.Controller)
			}
		}
	})
}

// think updates the controller and reports a node reached this tick.
func (s *BehaviorSystem) think(w *ecs.World, e ecs.Entity, c *ai.Controller) {
	reached := c.Stats().NodesReached
	c.Update(s.DT)
	if c.Stats().NodesReached > reached {
		w.Events().Push(ecs.Event{Type: ecs.EventNodeReached, Entity: e, Data: c.Target()})
	}
}

func updateMoving(body *physics.Body, m *component.Moving) {
	if m == nil {
		return
	}
	if m.Direction == 0 {
		m.Direction = 1
	}
	switch {
	case m.Direction > 0 && body.Position.X >= m.Right-0.5:
		m.Direction = -1
	case m.Direction < 0 && body.Position.X <= m.Left+0.5:
		m.Direction = 1
	}
	body.Velocity.X = m.Speed * m.Direction
}

func (s *BehaviorSystem) updateFalling(w *ecs.World, e ecs.Entity, body *physics.Body, f *component.Falling) {
	if f == nil || !f.Triggered || f.Fallen {
		return
	}
	f.Elapsed += s.DT
	if f.Elapsed < f.Delay {
		body.Position.X = f.OriginX + math.Sin(f.Elapsed*f.Frequency)*f.Amplitude
		return
	}

	body.Position.X = f.OriginX
	body.StaticY = false
	body.IgnoreGravity = false
	f.Fallen = true

	n := s.Graph.DeactivatePlatform(body)
	invalidated := InvalidateUsers(w, body)
	log.Info("platform: fell", "entity", e, "nodes", n, "agents", invalidated)
	w.Events().Push(ecs.Event{Type: ecs.EventPlatformFell, Entity: e})
}

// updateSpring pulls the body toward its anchor along Y with a force that
// grows with the square of the displacement.
func updateSpring(body *physics.Body, sp *component.Spring) {
	if sp == nil {
		return
	}
	d := sp.Anchor.Y - body.Position.Y
	body.Force.Y += d * sp.Stiffness * math.Abs(d) * sp.Damping
}

// InvalidateUsers asks every agent whose route touches platform to replan
// and returns how many were asked.
func InvalidateUsers(w *ecs.World, platform *physics.Body) int {
	n := 0
	ecs.ForEach(w, component.BehaviorComponent.Kind(), func(_ ecs.Entity, b *component.Behavior) {
		if b.Kind != component.BehaviorAgent || b.Agent == nil {
			return
		}
		if b.Agent.Controller.Uses(platform) {
			b.Agent.Controller.InvalidatePath()
			n++
		}
	})
	return n
}

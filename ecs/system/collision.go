package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/physics"
)

// CollisionHandler reacts to a resolved contact on behalf of one entity.
type CollisionHandler func(w *ecs.World, e ecs.Entity, b *component.Behavior, self *physics.Body, c *physics.Contact)

// CollisionSystem runs the all-pairs physics pass and routes every contact
// to the handler registered for each participant's behavior kind.
type CollisionSystem struct {
	Handlers map[component.BehaviorKind]CollisionHandler

	physics *physics.CollisionSystem
	world   *ecs.World
	bodies  []*physics.Body
	owners  map[*physics.Body]ecs.Entity
}

func NewCollisionSystem() *CollisionSystem {
	s := &CollisionSystem{
		Handlers: map[component.BehaviorKind]CollisionHandler{
			component.BehaviorAgent:   agentCollision,
			component.BehaviorFalling: fallingCollision,
		},
		owners: make(map[*physics.Body]ecs.Entity),
	}
	s.physics = physics.NewCollisionSystem(s.dispatch)
	return s
}

func (s *CollisionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.world = w
	s.bodies = s.bodies[:0]
	clear(s.owners)
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		s.bodies = append(s.bodies, pb.Body)
		s.owners[pb.Body] = e
	})
	s.physics.Step(s.bodies)
	s.world = nil
}

// Contacts returns the contacts resolved on the last tick.
func (s *CollisionSystem) Contacts() []physics.Contact {
	return s.physics.Contacts()
}

func (s *CollisionSystem) dispatch(self *physics.Body, c *physics.Contact) {
	e, ok := s.owners[self]
	if !ok {
		return
	}
	b, ok := ecs.Get(s.world, e, component.BehaviorComponent.Kind())
	if !ok {
		return
	}
	if h := s.Handlers[b.Kind]; h != nil {
		h(s.world, e, b, self, c)
	}
}

func agentCollision(_ *ecs.World, _ ecs.Entity, b *component.Behavior, _ *physics.Body, c *physics.Contact) {
	if b.Agent != nil {
		b.Agent.Controller.OnCollision(c)
	}
}

// fallingCollision arms a falling platform once an agent lands on top.
func fallingCollision(w *ecs.World, e ecs.Entity, b *component.Behavior, self *physics.Body, c *physics.Contact) {
	f := b.Falling
	if f == nil || f.Triggered {
		return
	}
	other := c.Other(self)
	if other == nil || other.Role != physics.RoleAgent {
		return
	}
	if c.NormalFor(self).Y >= 0 {
		return
	}
	f.Triggered = true
	f.OriginX = self.Position.X
	log.Info("platform: triggered", "entity", e, "delay", f.Delay)
	w.Events().Push(ecs.Event{Type: ecs.EventPlatformTriggered, Entity: e})
}

package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/waypoint"
)

// CullSystem destroys bodies that have dropped past the level kill line.
type CullSystem struct {
	Graph *waypoint.Graph
}

func NewCullSystem(graph *waypoint.Graph) *CullSystem {
	return &CullSystem{Graph: graph}
}

func (s *CullSystem) Update(w *ecs.World) {
	boundsEnt, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, _ := ecs.Get(w, boundsEnt, component.LevelBoundsComponent.Kind())

	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody) {
		body := pb.Body
		if body == nil || body.Top() <= bounds.KillLine {
			return
		}
		switch body.Role {
		case physics.RolePlatform:
			n := s.Graph.DeactivatePlatform(body)
			agents := InvalidateUsers(w, body)
			log.Info("platform: culled", "entity", e, "nodes", n, "agents", agents)
			w.Events().Push(ecs.Event{Type: ecs.EventPlatformCulled, Entity: e})
		case physics.RoleAgent:
			name := ""
			if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
				name = n.Value
			}
			log.Info("agent: culled", "entity", e, "name", name, "at", body.Position)
			w.Events().Push(ecs.Event{Type: ecs.EventAgentCulled, Entity: e, Data: name})
		}
		ecs.DestroyEntity(w, e)
	})
}

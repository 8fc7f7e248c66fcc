package system

import (
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/waypoint"
)

// NodeSyncSystem carries waypoint nodes along with the platform that owns
// them, so routes across moving platforms stay on the surface.
type NodeSyncSystem struct {
	Graph *waypoint.Graph
}

func NewNodeSyncSystem(graph *waypoint.Graph) *NodeSyncSystem {
	return &NodeSyncSystem{Graph: graph}
}

func (s *NodeSyncSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.PlatformComponent.Kind(), func(_ ecs.Entity, pb *component.PhysicsBody, p *component.Platform) {
		if pb.Body == nil {
			return
		}
		delta := pb.Body.Position.Sub(p.Synced)
		if delta.X == 0 && delta.Y == 0 {
			return
		}
		s.Graph.Translate(pb.Body, delta)
		p.Synced = pb.Body.Position
	})
}

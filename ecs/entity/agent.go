package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/prefabs"
	"github.com/milk9111/climber/waypoint"
)

// NewAgent spawns an agent standing on start, centred on the node and
// resting on the node's platform.
func NewAgent(w *ecs.World, graph *waypoint.Graph, name string, start waypoint.Handle, spec prefabs.AgentSpec, ctx *physics.Context, goals ai.GoalSelector) (ecs.Entity, *ai.Controller, error) {
	pos, ok := graph.Position(start)
	if !ok {
		return 0, nil, fmt.Errorf("agent %s: start node %d: %w", name, start, waypoint.ErrUnknownNode)
	}
	size := cp.Vector{X: spec.Body.Width, Y: spec.Body.Height}
	spawn := cp.Vector{X: pos.X - size.X/2, Y: pos.Y - size.Y/2}
	if plat := graph.Platform(start); plat != nil {
		spawn.Y = plat.Top() - size.Y
	}

	body, err := physics.NewBody(physics.BodyConfig{
		Position:   spawn,
		Size:       size,
		Mass:       spec.Body.Mass,
		Friction:   spec.Body.Friction,
		Bounciness: spec.Body.Bounciness,
		Role:       physics.RoleAgent,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("agent %s: %w", name, err)
	}

	ctrl, err := ai.NewController(name, body, graph, start, spec.Controller, ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("agent %s: %w", name, err)
	}
	if goals != nil {
		ctrl.SetGoalSelector(goals)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body}); err != nil {
		return 0, nil, fmt.Errorf("agent %s: add body: %w", name, err)
	}
	if err := ecs.Add(w, e, component.BehaviorComponent.Kind(), &component.Behavior{
		Kind:  component.BehaviorAgent,
		Agent: &component.Agent{Controller: ctrl},
	}); err != nil {
		return 0, nil, fmt.Errorf("agent %s: add behavior: %w", name, err)
	}
	if err := ecs.Add(w, e, component.AgentTagComponent.Kind(), &component.AgentTag{}); err != nil {
		return 0, nil, fmt.Errorf("agent %s: add tag: %w", name, err)
	}
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return 0, nil, fmt.Errorf("agent %s: add name: %w", name, err)
	}
	return e, ctrl, nil
}

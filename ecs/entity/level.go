package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/levels"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/prefabs"
	"github.com/milk9111/climber/waypoint"
)

// LevelSpecs bundles the tuning a level build needs.
type LevelSpecs struct {
	Physics   prefabs.PhysicsSpec
	Agent     prefabs.AgentSpec
	Platforms prefabs.PlatformsSpec
}

// BuiltLevel indexes what BuildLevel created.
type BuiltLevel struct {
	Graph     *waypoint.Graph
	Platforms []ecs.Entity
	Nodes     []waypoint.Handle
	Agents    []ecs.Entity
	Bounds    ecs.Entity
}

// BuildLevel creates platform and agent entities, fills a waypoint graph
// with the level's nodes and edges and records the level bounds.
func BuildLevel(w *ecs.World, lvl *levels.Level, specs LevelSpecs, ctx *physics.Context, goals ai.GoalSelector) (*BuiltLevel, error) {
	if err := lvl.Validate(); err != nil {
		return nil, err
	}

	graph := waypoint.NewGraph()
	graph.Heuristic = specs.Agent.Heuristic
	out := &BuiltLevel{Graph: graph}

	bodies := make([]*physics.Body, len(lvl.Platforms))
	for i, p := range lvl.Platforms {
		e, body, err := NewPlatform(w, i, p, specs.Platforms)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", lvl.Name, err)
		}
		bodies[i] = body
		out.Platforms = append(out.Platforms, e)
	}

	for _, n := range lvl.Nodes {
		body := bodies[n.Platform]
		h := graph.Add(cp.Vector{X: n.X, Y: body.Top() - specs.Platforms.NodeLift}, body)
		out.Nodes = append(out.Nodes, h)
	}
	for _, e := range lvl.Edges {
		if err := graph.Connect(out.Nodes[e[0]], out.Nodes[e[1]]); err != nil {
			return nil, fmt.Errorf("level %s: edge %v: %w", lvl.Name, e, err)
		}
	}

	for _, a := range lvl.Agents {
		e, _, err := NewAgent(w, graph, a.Name, out.Nodes[a.Node], specs.Agent, ctx, goals)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", lvl.Name, err)
		}
		out.Agents = append(out.Agents, e)
	}

	out.Bounds = ecs.CreateEntity(w)
	if err := ecs.Add(w, out.Bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:    lvl.Width,
		Height:   lvl.Height,
		KillLine: lvl.Floor(specs.Platforms.Height) + specs.Physics.KillMargin,
	}); err != nil {
		return nil, fmt.Errorf("level %s: add bounds: %w", lvl.Name, err)
	}
	return out, nil
}

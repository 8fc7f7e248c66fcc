package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/levels"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/prefabs"
)

// NewPlatform builds a platform entity from its level entry. Material and
// behavior tuning come from the platforms prefab.
func NewPlatform(w *ecs.World, index int, p levels.Platform, spec prefabs.PlatformsSpec) (ecs.Entity, *physics.Body, error) {
	material, err := spec.Material(p.Material)
	if err != nil {
		return 0, nil, fmt.Errorf("platform %d: %w", index, err)
	}
	kind, ok := component.ParseBehaviorKind(p.Behavior)
	if !ok || kind == component.BehaviorAgent {
		return 0, nil, fmt.Errorf("platform %d: behavior %q: %w", index, p.Behavior, levels.ErrUnknownBehavior)
	}

	height := p.H
	if height == 0 {
		height = spec.Height
	}
	cfg := physics.BodyConfig{
		Position:      cp.Vector{X: p.X, Y: p.Y},
		Size:          cp.Vector{X: p.W, Y: height},
		StaticX:       true,
		StaticY:       true,
		IgnoreGravity: true,
		Friction:      material.Friction,
		Bounciness:    material.Bounciness,
		Role:          physics.RolePlatform,
	}

	behavior := &component.Behavior{Kind: kind}
	defaults := spec.Behaviors
	switch kind {
	case component.BehaviorMoving:
		cfg.StaticX = false
		cfg.Mass = defaults.Moving.Mass
		travel := p.Range
		if travel == 0 {
			travel = defaults.Moving.Range
		}
		behavior.Moving = &component.Moving{
			Left:      p.X,
			Right:     p.X + travel,
			Speed:     defaults.Moving.Speed,
			Direction: 1,
		}
	case component.BehaviorFalling:
		cfg.Mass = defaults.Falling.Mass
		behavior.Falling = &component.Falling{
			Delay:     defaults.Falling.Delay,
			Amplitude: defaults.Falling.Amplitude,
			Frequency: defaults.Falling.Frequency,
			OriginX:   p.X,
		}
	case component.BehaviorSpring:
		cfg.StaticY = false
		cfg.Mass = defaults.Spring.Mass
		behavior.Spring = &component.Spring{
			Anchor:    cfg.Position,
			Stiffness: defaults.Spring.Stiffness,
			Damping:   defaults.Spring.Damping,
		}
	}

	body, err := physics.NewBody(cfg)
	if err != nil {
		return 0, nil, fmt.Errorf("platform %d: %w", index, err)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body}); err != nil {
		return 0, nil, fmt.Errorf("platform %d: add body: %w", index, err)
	}
	if err := ecs.Add(w, e, component.BehaviorComponent.Kind(), behavior); err != nil {
		return 0, nil, fmt.Errorf("platform %d: add behavior: %w", index, err)
	}
	if err := ecs.Add(w, e, component.PlatformComponent.Kind(), &component.Platform{
		Index:    index,
		Material: p.Material,
		Synced:   body.Position,
	}); err != nil {
		return 0, nil, fmt.Errorf("platform %d: add platform: %w", index, err)
	}
	if err := ecs.Add(w, e, component.PlatformTagComponent.Kind(), &component.PlatformTag{}); err != nil {
		return 0, nil, fmt.Errorf("platform %d: add tag: %w", index, err)
	}
	return e, body, nil
}

package system

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/ecs/entity"
	ecssys "github.com/milk9111/climber/ecs/system"
	"github.com/milk9111/climber/levels"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/prefabs"
	"github.com/milk9111/climber/waypoint"
)

// World owns one loaded level: the ECS world, the waypoint graph, the
// simulation context and the fixed system order.
type World struct {
	Level *levels.Level
	ECS   *ecs.World
	Graph *waypoint.Graph
	Specs entity.LevelSpecs

	ctx       *physics.Context
	dt        float64
	tick      int
	debug     bool
	scheduler *ecs.Scheduler
	behavior  *ecssys.BehaviorSystem
	integrate *ecssys.IntegrateSystem
	collision *ecssys.CollisionSystem
	script    *ecssys.ScriptGoal
	events    []ecs.Event
}

// AgentStatus is a read-only snapshot of one agent.
type AgentStatus struct {
	Entity   ecs.Entity
	Name     string
	Position cp.Vector
	Velocity cp.Vector
	State    ai.State
	SubState ai.SubState
	Target   waypoint.Handle
	Stats    ai.Stats
}

// NewWorld creates a new world and loads the requested level.
func NewWorld(levelName string, debug bool) (*World, error) {
	w := &World{debug: debug}
	if err := w.Load(levelName); err != nil {
		return nil, err
	}
	return w, nil
}

// Load replaces the current level. Tuning is re-read from the prefabs.
func (w *World) Load(levelName string) error {
	if w == nil {
		return fmt.Errorf("world is nil")
	}
	lvl, err := levels.Load(levelName)
	if err != nil {
		return err
	}
	specs, err := loadSpecs()
	if err != nil {
		return err
	}

	ctx := specs.Physics.Context()
	ctx.Debug = w.debug

	var goals ai.GoalSelector = ai.TopmostGoal{}
	var script *ecssys.ScriptGoal
	if specs.Agent.Goal.Policy == "script" {
		script, err = ecssys.NewScriptGoal(specs.Agent.Goal.Script)
		if err != nil {
			return err
		}
		goals = script
	}

	world := ecs.NewWorld()
	built, err := entity.BuildLevel(world, lvl, specs, &ctx, goals)
	if err != nil {
		return err
	}

	dt := specs.Physics.DT()
	w.Level = lvl
	w.ECS = world
	w.Graph = built.Graph
	w.Specs = specs
	w.ctx = &ctx
	w.dt = dt
	w.tick = 0
	w.script = script
	w.events = nil

	w.behavior = ecssys.NewBehaviorSystem(built.Graph, dt)
	w.integrate = ecssys.NewIntegrateSystem(&ctx, dt)
	w.collision = ecssys.NewCollisionSystem()
	w.scheduler = ecs.NewScheduler(
		w.behavior,
		w.integrate,
		ecssys.NewNodeSyncSystem(built.Graph),
		w.collision,
		ecssys.NewCullSystem(built.Graph),
		ecssys.NewDebugDrawSystem(built.Graph, w.collision),
	)

	log.Info("world: loaded", "level", lvl.Name, "platforms", len(built.Platforms), "nodes", len(built.Nodes), "agents", len(built.Agents))
	return nil
}

func loadSpecs() (entity.LevelSpecs, error) {
	var specs entity.LevelSpecs
	var err error
	if specs.Physics, err = prefabs.LoadPhysicsSpec(); err != nil {
		return specs, err
	}
	if specs.Agent, err = prefabs.LoadAgentSpec(); err != nil {
		return specs, err
	}
	if specs.Platforms, err = prefabs.LoadPlatformsSpec(); err != nil {
		return specs, err
	}
	return specs, nil
}

// Step advances the simulation by one fixed tick.
func (w *World) Step() {
	if w == nil || w.scheduler == nil {
		return
	}
	w.scheduler.Update(w.ECS)
	w.events = w.ECS.Events().Drain()
	for _, evt := range w.events {
		log.Debug("world: event", "tick", w.tick, "type", evt.Type, "entity", evt.Entity)
	}
	w.tick++
}

// Draw renders the debug view of the current state.
func (w *World) Draw(screen *ebiten.Image) {
	if w == nil || w.scheduler == nil {
		return
	}
	w.scheduler.Draw(w.ECS, screen)
}

func (w *World) Tick() int { return w.tick }

func (w *World) DT() float64 { return w.dt }

func (w *World) Context() physics.Context { return *w.ctx }

// Events returns the events raised during the last Step.
func (w *World) Events() []ecs.Event {
	return w.events
}

// Agents snapshots every live agent in entity order.
func (w *World) Agents() []AgentStatus {
	var out []AgentStatus
	ecs.ForEach2(w.ECS, component.PhysicsBodyComponent.Kind(), component.BehaviorComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, b *component.Behavior) {
		if b.Kind != component.BehaviorAgent || b.Agent == nil {
			return
		}
		c := b.Agent.Controller
		out = append(out, AgentStatus{
			Entity:   e,
			Name:     c.Name,
			Position: pb.Body.Position,
			Velocity: pb.Body.Velocity,
			State:    c.State(),
			SubState: c.SubState(),
			Target:   c.Target(),
			Stats:    c.Stats(),
		})
	})
	return out
}

// Controllers returns the controller of every live agent.
func (w *World) Controllers() []*ai.Controller {
	var out []*ai.Controller
	ecs.ForEach(w.ECS, component.BehaviorComponent.Kind(), func(_ ecs.Entity, b *component.Behavior) {
		if b.Kind == component.BehaviorAgent && b.Agent != nil {
			out = append(out, b.Agent.Controller)
		}
	})
	return out
}

// ApplyChange re-reads the tuning behind a changed prefab. It must run
// between ticks.
func (w *World) ApplyChange(kind prefabs.ChangeKind) error {
	switch kind {
	case prefabs.ChangePhysics:
		spec, err := prefabs.LoadPhysicsSpec()
		if err != nil {
			return err
		}
		ctx := spec.Context()
		ctx.Debug = w.ctx.Debug
		*w.ctx = ctx
		w.dt = spec.DT()
		w.behavior.DT = w.dt
		w.integrate.DT = w.dt
		w.Specs.Physics = spec
	case prefabs.ChangeAgent:
		spec, err := prefabs.LoadAgentSpec()
		if err != nil {
			return err
		}
		for _, c := range w.Controllers() {
			if err := c.Apply(spec.Controller); err != nil {
				return err
			}
			body := c.Body()
			if err := body.SetMass(spec.Body.Mass); err != nil {
				return fmt.Errorf("world: agent %s: %w", c.Name, err)
			}
			body.Friction = spec.Body.Friction
			body.Bounciness = spec.Body.Bounciness
		}
		w.Graph.Heuristic = spec.Heuristic
		w.Specs.Agent = spec
	case prefabs.ChangeScript:
		if w.script == nil {
			return nil
		}
		if err := w.script.Reload(); err != nil {
			return err
		}
	case prefabs.ChangePlatforms:
		log.Warn("world: platform tuning applies on the next level load")
		return nil
	default:
		return nil
	}
	log.Info("world: reloaded", "kind", kind)
	return nil
}

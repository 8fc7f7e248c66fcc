package prefabs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/common"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/waypoint"
	"gopkg.in/yaml.v3"
)

var ErrUnknownMaterial = errors.New("prefabs: unknown material")

const (
	PhysicsFile   = "physics.yaml"
	AgentFile     = "agent.yaml"
	PlatformsFile = "platforms.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// PhysicsSpec is the world tuning shared by every body.
type PhysicsSpec struct {
	TickRate        int        `yaml:"tick_rate"`
	Gravity         VectorSpec `yaml:"gravity"`
	AirResistance   float64    `yaml:"air_resistance"`
	MinMoveVelocity float64    `yaml:"min_move_velocity"`
	RestVelocity    float64    `yaml:"rest_velocity"`
	// KillMargin is how far below the level floor bodies are culled.
	KillMargin float64 `yaml:"kill_margin"`
}

func LoadPhysicsSpec() (PhysicsSpec, error) {
	spec, err := LoadSpec[PhysicsSpec](PhysicsFile)
	if err != nil {
		return spec, err
	}
	if spec.TickRate <= 0 {
		return spec, fmt.Errorf("prefabs: %s: tick_rate %d must be positive", PhysicsFile, spec.TickRate)
	}
	if !common.Finite(spec.Gravity.X) || !common.Finite(spec.Gravity.Y) {
		return spec, fmt.Errorf("prefabs: %s: gravity must be finite", PhysicsFile)
	}
	if spec.AirResistance <= 0 || spec.AirResistance > 1 {
		return spec, fmt.Errorf("prefabs: %s: air_resistance %v outside (0, 1]", PhysicsFile, spec.AirResistance)
	}
	return spec, nil
}

// Context converts the spec into a simulation context.
func (s PhysicsSpec) Context() physics.Context {
	return physics.Context{
		Gravity:         s.Gravity.Vector(),
		AirResistance:   s.AirResistance,
		MinMoveVelocity: s.MinMoveVelocity,
		RestVelocity:    s.RestVelocity,
	}
}

// DT is the fixed step length.
func (s PhysicsSpec) DT() float64 {
	if s.TickRate <= 0 {
		return common.FixedDT
	}
	return 1 / float64(s.TickRate)
}

type BodySpec struct {
	Width      float64          `yaml:"width"`
	Height     float64          `yaml:"height"`
	Mass       float64          `yaml:"mass"`
	Bounciness float64          `yaml:"bounciness"`
	Friction   physics.Friction `yaml:"friction"`
}

type GoalSpec struct {
	// Policy is "topmost" or "script".
	Policy string `yaml:"policy"`
	Script string `yaml:"script"`
}

type AgentSpec struct {
	Name       string             `yaml:"name"`
	Body       BodySpec           `yaml:"body"`
	Controller ai.Config          `yaml:"controller"`
	Goal       GoalSpec           `yaml:"goal"`
	Heuristic  waypoint.Heuristic `yaml:"heuristic"`
}

func LoadAgentSpec() (AgentSpec, error) {
	spec, err := LoadSpec[AgentSpec](AgentFile)
	if err != nil {
		return spec, err
	}
	if err := spec.Controller.Validate(); err != nil {
		return spec, fmt.Errorf("prefabs: %s: %w", AgentFile, err)
	}
	switch spec.Goal.Policy {
	case "", "topmost":
	case "script":
		if spec.Goal.Script == "" {
			return spec, fmt.Errorf("prefabs: %s: script goal policy without a script", AgentFile)
		}
	default:
		return spec, fmt.Errorf("prefabs: %s: unknown goal policy %q", AgentFile, spec.Goal.Policy)
	}
	return spec, nil
}

type MaterialSpec struct {
	Friction   physics.Friction `yaml:"friction"`
	Bounciness float64          `yaml:"bounciness"`
}

type MovingSpec struct {
	Speed float64 `yaml:"speed"`
	Range float64 `yaml:"range"`
	Mass  float64 `yaml:"mass"`
}

type FallingSpec struct {
	Delay     float64 `yaml:"delay"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Mass      float64 `yaml:"mass"`
}

type SpringSpec struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`
}

type BehaviorDefaults struct {
	Moving  MovingSpec  `yaml:"moving"`
	Falling FallingSpec `yaml:"falling"`
	Spring  SpringSpec  `yaml:"spring"`
}

type PlatformsSpec struct {
	Height    float64                 `yaml:"height"`
	NodeLift  float64                 `yaml:"node_lift"`
	Materials map[string]MaterialSpec `yaml:"materials"`
	Behaviors BehaviorDefaults        `yaml:"behaviors"`
}

func LoadPlatformsSpec() (PlatformsSpec, error) {
	spec, err := LoadSpec[PlatformsSpec](PlatformsFile)
	if err != nil {
		return spec, err
	}
	for name, m := range spec.Materials {
		if m.Friction.Static < 0 || m.Friction.Dynamic < 0 {
			return spec, fmt.Errorf("prefabs: %s: material %q: %w", PlatformsFile, name, physics.ErrNegativeFriction)
		}
	}
	return spec, nil
}

// Material looks up a material by name.
func (s PlatformsSpec) Material(name string) (MaterialSpec, error) {
	m, ok := s.Materials[name]
	if !ok {
		return MaterialSpec{}, fmt.Errorf("prefabs: material %q: %w", name, ErrUnknownMaterial)
	}
	return m, nil
}

// MaterialNames lists materials in sorted order.
func (s PlatformsSpec) MaterialNames() []string {
	names := make([]string, 0, len(s.Materials))
	for name := range s.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

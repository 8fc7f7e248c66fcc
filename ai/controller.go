package ai

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/waypoint"
)

// Stats counts controller milestones for status output.
type Stats struct {
	Replans      int
	Recoveries   int
	NodesReached int
}

// Controller drives one agent body along routes planned over a waypoint
// graph. It is not safe for concurrent use; call Update once per tick
// before the bodies are integrated.
type Controller struct {
	Name string

	cfg   Config
	ctx   *physics.Context
	body  *physics.Body
	graph *waypoint.Graph
	goals GoalSelector

	state    State
	sub      SubState
	previous waypoint.Handle
	target   waypoint.Handle
	goal     waypoint.Handle
	path     waypoint.Path

	grounded bool
	platform *physics.Body
	jumped   bool
	dropped  bool

	legTime     float64
	waitTime    float64
	temp        waypoint.Handle
	invalidated bool
	stats       Stats
}

// NewController binds a controller to body. start is the node the agent is
// standing at; NoNode lets the controller pick the nearest node on its
// first plan.
func NewController(name string, body *physics.Body, graph *waypoint.Graph, start waypoint.Handle, cfg Config, ctx *physics.Context) (*Controller, error) {
	if body == nil {
		return nil, fmt.Errorf("ai: new controller %s: %w", name, ErrNilBody)
	}
	if graph == nil {
		return nil, fmt.Errorf("ai: new controller %s: %w", name, ErrNilGraph)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ai: new controller %s: %w", name, err)
	}
	if ctx == nil {
		def := physics.DefaultContext()
		ctx = &def
	}
	return &Controller{
		Name:     name,
		cfg:      cfg,
		ctx:      ctx,
		body:     body,
		graph:    graph,
		goals:    TopmostGoal{},
		state:    AtGoal,
		previous: waypoint.NoNode,
		target:   start,
		goal:     waypoint.NoNode,
		temp:     waypoint.NoNode,
	}, nil
}

// SetGoalSelector replaces the goal policy. A nil selector restores the
// topmost policy.
func (c *Controller) SetGoalSelector(s GoalSelector) {
	if c == nil {
		return
	}
	if s == nil {
		s = TopmostGoal{}
	}
	c.goals = s
}

// Apply swaps in new tuning between ticks.
func (c *Controller) Apply(cfg Config) error {
	if c == nil {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// Update advances the state machine by one tick and writes the resulting
// force into the body. Exactly one state transition happens per call.
func (c *Controller) Update(dt float64) {
	if c == nil {
		return
	}

	if c.invalidated {
		c.invalidated = false
		c.recover("invalidated")
	} else {
		switch c.state {
		case AtGoal:
			c.plan()
		case SelectingNode:
			c.selectNext()
		case TravellingToNode:
			c.travel(dt)
		}
	}

	// Support has been consumed; the collision pass re-asserts it.
	c.grounded = false
}

// InvalidatePath requests a replan. The recovery runs on the next Update,
// which always leaves the controller in AtGoal with its path discarded.
func (c *Controller) InvalidatePath() {
	if c == nil {
		return
	}
	c.invalidated = true
}

// OnCollision records support from a platform below the agent.
func (c *Controller) OnCollision(contact *physics.Contact) {
	if c == nil || contact == nil {
		return
	}
	other := contact.Other(c.body)
	if other == nil || other.Role != physics.RolePlatform {
		return
	}
	if contact.NormalFor(c.body).Y > 0 {
		c.grounded = true
		c.platform = other
	}
}

func (c *Controller) plan() {
	goal, ok := c.goals.SelectGoal(c.graph, c)
	if !ok {
		return
	}
	if goal == c.target && c.graph.Active(goal) {
		// Already standing on it; nothing to search for.
		c.goal = goal
		return
	}
	start := c.target
	if !c.graph.Active(start) {
		if near, found := c.graph.Nearest(c.body.Center()); found {
			start = near
			c.target = near
		}
	}
	c.goal = goal
	c.path = c.graph.FindPath(start, goal)
	c.stats.Replans++
	if c.ctx.Debug {
		log.Debug("ai: plan", "agent", c.Name, "from", start, "goal", goal, "route", c.path.Nodes())
	}
	c.setState(SelectingNode)
}

func (c *Controller) selectNext() {
	c.previous = c.target
	next, ok := c.path.Pop()
	if !ok {
		c.setState(AtGoal)
		return
	}
	c.target = next
	c.classify()
	c.setState(TravellingToNode)
}

// classify picks the movement strategy for the leg previous -> target.
func (c *Controller) classify() {
	prevPos, prevPlat := c.nodeOrAgent(c.previous)
	tgtPos, _ := c.graph.Position(c.target)
	tgtPlat := c.graph.Platform(c.target)

	c.jumped = false
	c.dropped = false
	c.legTime = 0
	c.waitTime = 0

	switch {
	case prevPlat != nil && prevPlat == tgtPlat:
		c.sub = SamePlatform
	case abs(tgtPos.Y-prevPos.Y) > c.cfg.VerticalThreshold:
		c.sub = DifferentPlatformVertical
	default:
		c.sub = DifferentPlatformHorizontal
	}
	if c.ctx.Debug {
		log.Debug("ai: leg", "agent", c.Name, "from", c.previous, "to", c.target, "sub", c.sub)
	}
}

func (c *Controller) nodeOrAgent(h waypoint.Handle) (cp.Vector, *physics.Body) {
	if pos, ok := c.graph.Position(h); ok {
		return pos, c.graph.Platform(h)
	}
	return c.body.Center(), c.platform
}

func (c *Controller) travel(dt float64) {
	tgtPos, ok := c.graph.Position(c.target)
	if !ok {
		c.setState(AtGoal)
		return
	}
	if c.grounded && c.body.Contains(tgtPos) {
		c.stats.NodesReached++
		if c.path.Empty() {
			c.setState(AtGoal)
		} else {
			c.setState(SelectingNode)
		}
		return
	}

	c.legTime += dt
	if c.legTime > c.cfg.GiveUp && c.sub != Lost {
		c.lose("leg timed out")
	}

	switch c.sub {
	case SamePlatform:
		c.samePlatform(tgtPos)
	case DifferentPlatformHorizontal:
		c.horizontalHop(tgtPos)
	case DifferentPlatformVertical:
		c.verticalHop(tgtPos, dt)
	case Lost:
		c.recover("lost")
	default:
		c.classify()
	}
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	log.Debug("ai: state", "agent", c.Name, "from", c.state, "to", s)
	c.state = s
}

func (c *Controller) lose(reason string) {
	if c.sub == Lost {
		return
	}
	log.Debug("ai: lost", "agent", c.Name, "reason", reason, "sub", c.sub, "target", c.target)
	c.sub = Lost
}

// MoveLeft overwrites the horizontal force.
func (c *Controller) MoveLeft() {
	c.body.Force.X = -c.cfg.Speed
}

// MoveRight overwrites the horizontal force.
func (c *Controller) MoveRight() {
	c.body.Force.X = c.cfg.Speed
}

// Jump overwrites the vertical force when the agent is grounded and
// reports whether it did.
func (c *Controller) Jump() bool {
	if !c.grounded {
		return false
	}
	c.body.Force.Y = -c.cfg.JumpSpeed
	c.jumped = true
	c.grounded = false
	return true
}

func (c *Controller) State() State              { return c.state }
func (c *Controller) SubState() SubState        { return c.sub }
func (c *Controller) Target() waypoint.Handle   { return c.target }
func (c *Controller) Previous() waypoint.Handle { return c.previous }
func (c *Controller) Goal() waypoint.Handle     { return c.goal }
func (c *Controller) Grounded() bool            { return c.grounded }
func (c *Controller) Platform() *physics.Body   { return c.platform }
func (c *Controller) Body() *physics.Body       { return c.body }
func (c *Controller) Config() Config            { return c.cfg }
func (c *Controller) Stats() Stats              { return c.stats }

// Path returns a copy of the queued route after the current target.
func (c *Controller) Path() []waypoint.Handle {
	return c.path.Nodes()
}

// Uses reports whether the current leg or the queued route touches a node
// owned by platform.
func (c *Controller) Uses(platform *physics.Body) bool {
	if c == nil || platform == nil {
		return false
	}
	if c.state == TravellingToNode && c.graph.Platform(c.target) == platform {
		return true
	}
	for _, h := range c.path.Nodes() {
		if c.graph.Platform(h) == platform {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

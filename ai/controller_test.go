package ai

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/waypoint"
)

const dt = 1.0 / 60

type harness struct {
	ctx       physics.Context
	graph     *waypoint.Graph
	agent     *physics.Body
	platforms []*physics.Body
	ctrl      *Controller
	collide   *physics.CollisionSystem
}

func newPlatform(t *testing.T, x, y, w float64) *physics.Body {
	t.Helper()
	return newPlatformWith(t, x, y, w, 0.9, 0.1)
}

func newPlatformWith(t *testing.T, x, y, w, friction, bounce float64) *physics.Body {
	t.Helper()
	b, err := physics.NewBody(physics.BodyConfig{
		Position:      cp.Vector{X: x, Y: y},
		Size:          cp.Vector{X: w, Y: 20},
		StaticX:       true,
		StaticY:       true,
		IgnoreGravity: true,
		Friction:      physics.Friction{Static: friction, Dynamic: friction},
		Bounciness:    bounce,
		Role:          physics.RolePlatform,
	})
	if err != nil {
		t.Fatalf("platform: %v", err)
	}
	return b
}

func newAgent(t *testing.T, x, y float64) *physics.Body {
	t.Helper()
	b, err := physics.NewBody(physics.BodyConfig{
		Position:   cp.Vector{X: x, Y: y},
		Size:       cp.Vector{X: 32, Y: 32},
		Mass:       0.5,
		Friction:   physics.Friction{Static: 0.2, Dynamic: 0.2},
		Bounciness: 0.1,
		Role:       physics.RoleAgent,
	})
	if err != nil {
		t.Fatalf("agent: %v", err)
	}
	return b
}

type platformDef struct {
	x, y, w  float64
	friction float64
	bounce   float64
}

type nodeDef struct {
	platform int
	x        float64
}

// layout mirrors a level file: nodes sit 16 above their platform and the
// agent starts centred on the start node, resting on its platform.
type layout struct {
	platforms []platformDef
	nodes     []nodeDef
	edges     [][2]int
	start     int
}

func newLayoutHarness(t *testing.T, l layout) (*harness, []waypoint.Handle) {
	t.Helper()
	h := &harness{ctx: physics.DefaultContext(), graph: waypoint.NewGraph()}
	for _, p := range l.platforms {
		h.platforms = append(h.platforms, newPlatformWith(t, p.x, p.y, p.w, p.friction, p.bounce))
	}
	handles := make([]waypoint.Handle, len(l.nodes))
	for i, n := range l.nodes {
		plat := h.platforms[n.platform]
		handles[i] = h.graph.Add(cp.Vector{X: n.x, Y: plat.Top() - 16}, plat)
	}
	for _, e := range l.edges {
		if err := h.graph.Connect(handles[e[0]], handles[e[1]]); err != nil {
			t.Fatal(err)
		}
	}

	startPos, _ := h.graph.Position(handles[l.start])
	startPlat := h.platforms[l.nodes[l.start].platform]
	h.agent = newAgent(t, startPos.X-16, startPlat.Top()-32)

	ctrl, err := NewController("test", h.agent, h.graph, handles[l.start], DefaultConfig(), &h.ctx)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	h.ctrl = ctrl
	h.collide = physics.NewCollisionSystem(func(self *physics.Body, c *physics.Contact) {
		if self == h.agent {
			ctrl.OnCollision(c)
		}
	})
	return h, handles
}

// newFloorHarness builds one wide platform with nodes at x=40 and x=240.
// The agent stands on the left node and heads for the right one.
func newFloorHarness(t *testing.T) (*harness, waypoint.Handle, waypoint.Handle) {
	t.Helper()
	h, nodes := newLayoutHarness(t, layout{
		platforms: []platformDef{{x: 0, y: 500, w: 300, friction: 0.9, bounce: 0.1}},
		nodes:     []nodeDef{{0, 40}, {0, 240}},
		edges:     [][2]int{{0, 1}},
	})
	left, right := nodes[0], nodes[1]
	h.ctrl.SetGoalSelector(GoalFunc(func(*waypoint.Graph, *Controller) (waypoint.Handle, bool) {
		return right, true
	}))
	return h, left, right
}

// tick runs one fixed step in the world's order: think, integrate, then
// collide with platforms ahead of the agent.
func (h *harness) tick() {
	h.ctrl.Update(dt)
	for _, p := range h.platforms {
		p.Step(dt, &h.ctx)
	}
	h.agent.Step(dt, &h.ctx)
	h.collide.Step(append(append([]*physics.Body(nil), h.platforms...), h.agent))
}

func TestNewControllerValidation(t *testing.T) {
	g := waypoint.NewGraph()
	body := newAgent(t, 0, 0)
	bad := DefaultConfig()
	bad.Speed = 0

	cases := []struct {
		name    string
		body    *physics.Body
		graph   *waypoint.Graph
		cfg     Config
		wantErr error
	}{
		{"ok", body, g, DefaultConfig(), nil},
		{"nil_body", nil, g, DefaultConfig(), ErrNilBody},
		{"nil_graph", body, nil, DefaultConfig(), ErrNilGraph},
		{"bad_config", body, g, bad, ErrInvalidConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewController("x", tc.body, tc.graph, waypoint.NoNode, tc.cfg, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPlanThenSelect(t *testing.T) {
	h, left, right := newFloorHarness(t)
	c := h.ctrl

	if c.State() != AtGoal {
		t.Fatalf("initial state = %v", c.State())
	}
	c.Update(dt)
	if c.State() != SelectingNode {
		t.Fatalf("after plan state = %v", c.State())
	}
	if got := c.Path(); len(got) != 1 || got[0] != right {
		t.Fatalf("planned path = %v", got)
	}
	c.Update(dt)
	if c.State() != TravellingToNode {
		t.Fatalf("after select state = %v", c.State())
	}
	if c.Target() != right || c.Previous() != left {
		t.Fatalf("leg = %d -> %d", c.Previous(), c.Target())
	}
	if c.SubState() != SamePlatform {
		t.Fatalf("sub state = %v", c.SubState())
	}
}

func TestNoGoalStaysAtGoal(t *testing.T) {
	h, _, _ := newFloorHarness(t)
	h.ctrl.SetGoalSelector(GoalFunc(func(*waypoint.Graph, *Controller) (waypoint.Handle, bool) {
		return waypoint.NoNode, false
	}))
	for i := 0; i < 3; i++ {
		h.ctrl.Update(dt)
		if h.ctrl.State() != AtGoal {
			t.Fatalf("tick %d: state = %v", i, h.ctrl.State())
		}
	}
	if h.ctrl.Stats().Replans != 0 {
		t.Fatalf("replanned without a goal")
	}
}

func TestEmptyPathReturnsToAtGoal(t *testing.T) {
	h, _, _ := newFloorHarness(t)
	stranded := h.graph.Add(cp.Vector{X: 150, Y: 484}, h.platforms[0])
	h.ctrl.SetGoalSelector(GoalFunc(func(*waypoint.Graph, *Controller) (waypoint.Handle, bool) {
		return stranded, true
	}))
	h.ctrl.Update(dt)
	if h.ctrl.State() != SelectingNode {
		t.Fatalf("state = %v", h.ctrl.State())
	}
	h.ctrl.Update(dt)
	if h.ctrl.State() != AtGoal {
		t.Fatalf("empty path should return to AtGoal, got %v", h.ctrl.State())
	}
}

func TestStaysAtGoalWithoutReplanning(t *testing.T) {
	t.Run("goal_is_current_node", func(t *testing.T) {
		h, left, _ := newFloorHarness(t)
		h.ctrl.SetGoalSelector(GoalFunc(func(*waypoint.Graph, *Controller) (waypoint.Handle, bool) {
			return left, true
		}))
		for i := 0; i < 5; i++ {
			h.ctrl.Update(dt)
			if h.ctrl.State() != AtGoal {
				t.Fatalf("tick %d: state = %v", i, h.ctrl.State())
			}
		}
		if h.ctrl.Stats().Replans != 0 || h.ctrl.Goal() != left {
			t.Fatalf("replans = %d goal = %d", h.ctrl.Stats().Replans, h.ctrl.Goal())
		}
	})

	t.Run("after_arriving", func(t *testing.T) {
		h, _, right := newFloorHarness(t)
		for i := 0; i < 1200; i++ {
			h.tick()
			if h.ctrl.State() == AtGoal && h.ctrl.Target() == right {
				break
			}
		}
		if h.ctrl.Target() != right {
			t.Fatalf("never arrived; at %v state %v", h.agent.Position, h.ctrl.State())
		}
		replans := h.ctrl.Stats().Replans
		for i := 0; i < 600; i++ {
			h.tick()
			if h.ctrl.State() != AtGoal {
				t.Fatalf("tick %d: left the goal, state %v", i, h.ctrl.State())
			}
		}
		if got := h.ctrl.Stats().Replans; got != replans {
			t.Fatalf("replans grew while idle: %d -> %d", replans, got)
		}
	})
}

func TestInvalidatePath(t *testing.T) {
	h, _, right := newFloorHarness(t)
	c := h.ctrl
	c.Update(dt)
	c.Update(dt)
	if c.State() != TravellingToNode {
		t.Fatalf("setup state = %v", c.State())
	}

	c.InvalidatePath()
	c.Update(dt)

	if c.State() != AtGoal {
		t.Fatalf("state after invalidate = %v", c.State())
	}
	if len(c.Path()) != 0 {
		t.Fatalf("path survived invalidate: %v", c.Path())
	}
	tmp, ok := c.TempNode()
	if !ok || c.Target() != tmp {
		t.Fatalf("expected target to be the recovery node, got %d (tmp %d,%v)", c.Target(), tmp, ok)
	}
	if c.Stats().Recoveries != 1 {
		t.Fatalf("recoveries = %d", c.Stats().Recoveries)
	}

	// The recovery node must let the next plan reach the old goal.
	c.Update(dt)
	if got := c.Path(); len(got) == 0 || got[len(got)-1] != right {
		t.Fatalf("replan from recovery node = %v", got)
	}
}

func TestRecoveryRetiresPreviousTempNode(t *testing.T) {
	h, _, _ := newFloorHarness(t)
	c := h.ctrl
	c.InvalidatePath()
	c.Update(dt)
	first, _ := c.TempNode()
	c.InvalidatePath()
	c.Update(dt)
	second, _ := c.TempNode()

	if first == second {
		t.Fatalf("expected a fresh recovery node")
	}
	if h.graph.Active(first) || len(h.graph.Neighbors(first)) != 0 {
		t.Fatalf("previous recovery node still wired")
	}
}

func TestRecoveryModes(t *testing.T) {
	t.Run("full_replan_links_platform_nodes", func(t *testing.T) {
		h, left, right := newFloorHarness(t)
		c := h.ctrl
		c.platform = h.platforms[0]
		c.recover("test")
		tmp, _ := c.TempNode()
		nb := h.graph.Neighbors(tmp)
		if len(nb) != 2 || nb[0] != left || nb[1] != right {
			t.Fatalf("temp neighbors = %v", nb)
		}
	})

	t.Run("path_preserving_links_next_queued", func(t *testing.T) {
		h, _, right := newFloorHarness(t)
		c := h.ctrl
		c.Update(dt) // plan: path [right]
		c.recover("test")
		tmp, _ := c.TempNode()
		nb := h.graph.Neighbors(tmp)
		if len(nb) != 1 || nb[0] != right {
			t.Fatalf("temp neighbors = %v", nb)
		}
	})

	t.Run("nearest_when_nothing_queued", func(t *testing.T) {
		h, left, _ := newFloorHarness(t)
		c := h.ctrl
		c.recover("test")
		tmp, _ := c.TempNode()
		nb := h.graph.Neighbors(tmp)
		if len(nb) != 1 || nb[0] != left {
			t.Fatalf("temp neighbors = %v", nb)
		}
	})

	t.Run("isolated_when_graph_is_empty", func(t *testing.T) {
		h, left, right := newFloorHarness(t)
		h.graph.Deactivate(left)
		h.graph.Deactivate(right)
		c := h.ctrl
		c.recover("test")
		tmp, ok := c.TempNode()
		if !ok || len(h.graph.Neighbors(tmp)) != 0 {
			t.Fatalf("temp neighbors = %v", h.graph.Neighbors(tmp))
		}
		if c.State() != AtGoal || c.Target() != tmp {
			t.Fatalf("state %v target %d", c.State(), c.Target())
		}
	})
}

func TestMovementPrimitives(t *testing.T) {
	h, _, _ := newFloorHarness(t)
	c := h.ctrl
	body := h.agent

	body.Force = cp.Vector{X: 7, Y: 3}
	c.MoveLeft()
	if body.Force.X != -c.Config().Speed || body.Force.Y != 3 {
		t.Fatalf("MoveLeft force = %v", body.Force)
	}
	c.MoveRight()
	if body.Force.X != c.Config().Speed {
		t.Fatalf("MoveRight force = %v", body.Force)
	}

	if c.Jump() {
		t.Fatalf("jumped while airborne")
	}
	if body.Force.Y != 3 {
		t.Fatalf("airborne jump changed force: %v", body.Force)
	}

	contact := physics.Contact{A: body, B: h.platforms[0], Normal: cp.Vector{Y: 1}}
	c.OnCollision(&contact)
	if !c.Jump() {
		t.Fatalf("grounded jump refused")
	}
	if body.Force.Y != -c.Config().JumpSpeed || !c.jumped {
		t.Fatalf("jump force = %v jumped=%v", body.Force, c.jumped)
	}
}

func TestOnCollisionGrounding(t *testing.T) {
	h, _, _ := newFloorHarness(t)
	floor := h.platforms[0]
	other := newAgent(t, 0, 0)

	cases := []struct {
		name     string
		contact  physics.Contact
		grounded bool
	}{
		{"platform_below", physics.Contact{A: h.agent, B: floor, Normal: cp.Vector{Y: 1}}, true},
		{"platform_below_as_b", physics.Contact{A: floor, B: h.agent, Normal: cp.Vector{Y: -1}}, true},
		{"platform_above", physics.Contact{A: h.agent, B: floor, Normal: cp.Vector{Y: -1}}, false},
		{"platform_beside", physics.Contact{A: h.agent, B: floor, Normal: cp.Vector{X: 1}}, false},
		{"agent_below", physics.Contact{A: h.agent, B: other, Normal: cp.Vector{Y: 1}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h.ctrl.grounded = false
			h.ctrl.platform = nil
			h.ctrl.OnCollision(&tc.contact)
			if h.ctrl.Grounded() != tc.grounded {
				t.Fatalf("grounded = %v, want %v", h.ctrl.Grounded(), tc.grounded)
			}
			if tc.grounded && h.ctrl.Platform() != floor {
				t.Fatalf("platform not recorded")
			}
		})
	}
}

func TestGroundedClearedEachUpdate(t *testing.T) {
	h, _, _ := newFloorHarness(t)
	contact := physics.Contact{A: h.agent, B: h.platforms[0], Normal: cp.Vector{Y: 1}}
	h.ctrl.OnCollision(&contact)
	h.ctrl.Update(dt)
	if h.ctrl.Grounded() {
		t.Fatalf("grounded survived Update")
	}
}

func TestClassify(t *testing.T) {
	h, left, _ := newFloorHarness(t)
	upper := newPlatform(t, 200, 400, 100)
	beside := newPlatform(t, 360, 500, 100)
	up := h.graph.Add(cp.Vector{X: 220, Y: 384}, upper)
	across := h.graph.Add(cp.Vector{X: 380, Y: 490}, beside)
	same := h.graph.Add(cp.Vector{X: 100, Y: 484}, h.platforms[0])

	cases := []struct {
		name   string
		target waypoint.Handle
		want   SubState
	}{
		{"same_platform", same, SamePlatform},
		{"vertical", up, DifferentPlatformVertical},
		{"horizontal_within_threshold", across, DifferentPlatformHorizontal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h.ctrl.previous = left
			h.ctrl.target = tc.target
			h.ctrl.jumped = true
			h.ctrl.classify()
			if h.ctrl.SubState() != tc.want {
				t.Fatalf("sub state = %v, want %v", h.ctrl.SubState(), tc.want)
			}
			if h.ctrl.jumped {
				t.Fatalf("jump flag not reset on classify")
			}
		})
	}
}

func TestSamePlatformSteering(t *testing.T) {
	cases := []struct {
		name      string
		velocityX float64
		agentX    float64
		wantSign  float64
	}{
		{"at_rest_moves_toward", 0, 100, 1},
		{"far_and_fast_keeps_driving", 40, 24, 1},
		{"close_and_fast_brakes", 150, 195, -1},
		{"moving_away_turns_back", -30, 100, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _, right := newFloorHarness(t)
			c := h.ctrl
			c.target = right
			c.platform = h.platforms[0]
			h.agent.Position.X = tc.agentX
			h.agent.Velocity.X = tc.velocityX
			pos, _ := h.graph.Position(right)

			c.samePlatform(pos)

			if got := h.agent.Force.X; got*tc.wantSign <= 0 {
				t.Fatalf("force.x = %v, want sign %v", got, tc.wantSign)
			}
		})
	}
}

func TestSamePlatformDetectsWrongFooting(t *testing.T) {
	h, _, right := newFloorHarness(t)
	c := h.ctrl
	c.target = right
	c.sub = SamePlatform
	c.platform = newPlatform(t, 0, 700, 300)
	pos, _ := h.graph.Position(right)
	c.samePlatform(pos)
	if c.SubState() != Lost {
		t.Fatalf("sub state = %v, want lost", c.SubState())
	}
}

func TestStoppingDistanceAtRest(t *testing.T) {
	h, _, _ := newFloorHarness(t)
	if d := h.ctrl.stoppingDistance(0, h.platforms[0]); d != 0 {
		t.Fatalf("stopping distance at rest = %v", d)
	}
	if d := h.ctrl.stoppingDistance(40, h.platforms[0]); d <= 0 {
		t.Fatalf("stopping distance while moving = %v", d)
	}
}

func TestWalksToNodeOnSamePlatform(t *testing.T) {
	h, _, _ := newFloorHarness(t)
	for i := 0; i < 1200 && h.ctrl.Stats().NodesReached == 0; i++ {
		h.tick()
	}
	if h.ctrl.Stats().NodesReached == 0 {
		t.Fatalf("agent never reached the node; at %v state %v/%v", h.agent.Position, h.ctrl.State(), h.ctrl.SubState())
	}
	if h.ctrl.Stats().Recoveries != 0 {
		t.Fatalf("unexpected recoveries: %d", h.ctrl.Stats().Recoveries)
	}
}

func TestDeterministic(t *testing.T) {
	run := func() (cp.Vector, cp.Vector) {
		h, _, _ := newFloorHarness(t)
		for i := 0; i < 300; i++ {
			h.tick()
		}
		return h.agent.Position, h.agent.Velocity
	}
	p1, v1 := run()
	p2, v2 := run()
	if p1 != p2 || v1 != v2 {
		t.Fatalf("runs diverged: %v/%v vs %v/%v", p1, v1, p2, v2)
	}
}

package waypoint

import (
	"slices"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestFindPath(t *testing.T) {
	type built struct {
		start, goal Handle
		want        []Handle
	}
	cases := []struct {
		name  string
		build func(t *testing.T, g *Graph) built
	}{
		{
			name: "line_without_detour",
			build: func(t *testing.T, g *Graph) built {
				p := testPlatform(t, -100, 20, 0.1, 0)
				a := g.Add(cp.Vector{X: 0, Y: 0}, p)
				b := g.Add(cp.Vector{X: 100, Y: 0}, p)
				c := g.Add(cp.Vector{X: 200, Y: 0}, p)
				d := g.Add(cp.Vector{X: 100, Y: 300}, p)
				_ = g.Connect(a, b)
				_ = g.Connect(b, c)
				_ = g.Connect(a, d)
				_ = g.Connect(d, c)
				return built{a, c, []Handle{b, c}}
			},
		},
		{
			name: "same_platform_pair",
			build: func(t *testing.T, g *Graph) built {
				p := testPlatform(t, 0, 596, 0.9, 0.1)
				left := g.Add(cp.Vector{X: 20, Y: 580}, p)
				right := g.Add(cp.Vector{X: 580, Y: 580}, p)
				_ = g.Connect(left, right)
				return built{right, left, []Handle{left}}
			},
		},
		{
			name: "avoids_inactive_node",
			build: func(t *testing.T, g *Graph) built {
				p := testPlatform(t, 0, 20, 0.1, 0)
				a := g.Add(cp.Vector{X: 0, Y: 0}, p)
				x := g.Add(cp.Vector{X: 100, Y: 0}, p)
				y := g.Add(cp.Vector{X: 100, Y: 50}, p)
				c := g.Add(cp.Vector{X: 200, Y: 0}, p)
				_ = g.Connect(a, x)
				_ = g.Connect(x, c)
				_ = g.Connect(a, y)
				_ = g.Connect(y, c)
				g.Deactivate(x)
				return built{a, c, []Handle{y, c}}
			},
		},
		{
			name: "inactive_node_is_costly_not_pruned",
			build: func(t *testing.T, g *Graph) built {
				a := g.Add(cp.Vector{X: 0, Y: 0}, nil)
				x := g.Add(cp.Vector{X: 100, Y: 0}, nil)
				c := g.Add(cp.Vector{X: 200, Y: 0}, nil)
				_ = g.Connect(a, x)
				_ = g.Connect(x, c)
				g.Deactivate(x)
				return built{a, c, []Handle{x, c}}
			},
		},
		{
			name: "tie_broken_by_insertion_order",
			build: func(t *testing.T, g *Graph) built {
				a := g.Add(cp.Vector{X: 0, Y: 0}, nil)
				c := g.Add(cp.Vector{X: 200, Y: 0}, nil)
				b2 := g.Add(cp.Vector{X: 100, Y: 50}, nil)
				b1 := g.Add(cp.Vector{X: 100, Y: 50}, nil)
				_ = g.Connect(a, b1)
				_ = g.Connect(a, b2)
				_ = g.Connect(b1, c)
				_ = g.Connect(b2, c)
				return built{a, c, []Handle{b1, c}}
			},
		},
		{
			name: "goal_missing",
			build: func(t *testing.T, g *Graph) built {
				a := g.Add(cp.Vector{}, nil)
				return built{a, NoNode, nil}
			},
		},
		{
			name: "goal_unreachable",
			build: func(t *testing.T, g *Graph) built {
				a := g.Add(cp.Vector{}, nil)
				b := g.Add(cp.Vector{X: 10}, nil)
				c := g.Add(cp.Vector{X: 50}, nil)
				_ = g.Connect(a, b)
				return built{a, c, nil}
			},
		},
		{
			name: "goal_inactive_is_still_searched",
			build: func(t *testing.T, g *Graph) built {
				a := g.Add(cp.Vector{}, nil)
				b := g.Add(cp.Vector{X: 10}, nil)
				_ = g.Connect(a, b)
				g.Deactivate(b)
				return built{a, b, []Handle{b}}
			},
		},
		{
			name: "goal_inactive_behind_inactive_node",
			build: func(t *testing.T, g *Graph) built {
				a := g.Add(cp.Vector{}, nil)
				x := g.Add(cp.Vector{X: 10}, nil)
				b := g.Add(cp.Vector{X: 20}, nil)
				_ = g.Connect(a, x)
				_ = g.Connect(x, b)
				g.Deactivate(x)
				g.Deactivate(b)
				return built{a, b, []Handle{x, b}}
			},
		},
		{
			name: "already_at_goal",
			build: func(t *testing.T, g *Graph) built {
				a := g.Add(cp.Vector{}, nil)
				return built{a, a, nil}
			},
		},
		{
			name: "start_missing",
			build: func(t *testing.T, g *Graph) built {
				a := g.Add(cp.Vector{}, nil)
				return built{NoNode, a, nil}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGraph()
			b := tc.build(t, g)
			path := g.FindPath(b.start, b.goal)
			if got := path.Nodes(); !slices.Equal(got, b.want) {
				t.Fatalf("FindPath = %v, want %v", got, b.want)
			}
		})
	}
}

func TestFindPathRecordsCosts(t *testing.T) {
	g := NewGraph()
	a := g.Add(cp.Vector{X: 0, Y: 0}, nil)
	b := g.Add(cp.Vector{X: 100, Y: 0}, nil)
	lonely := g.Add(cp.Vector{X: 500, Y: 0}, nil)
	_ = g.Connect(a, b)

	if path := g.FindPath(a, b); path.Len() != 1 {
		t.Fatalf("expected one step, got %v", path.Nodes())
	}

	ga, ha, ok := g.Cost(a)
	if !ok || ga != 0 || ha != 100 {
		t.Fatalf("start cost = %v,%v,%v", ga, ha, ok)
	}
	gb, _, ok := g.Cost(b)
	if !ok || gb != ga+ha {
		t.Fatalf("goal G = %v, want parent G+H %v", gb, ga+ha)
	}
	if parent, ok := g.Parent(b); !ok || parent != a {
		t.Fatalf("parent of goal = %d,%v", parent, ok)
	}
	if _, _, ok := g.Cost(lonely); ok {
		t.Fatalf("untouched node reported a cost")
	}
}

func TestHeuristicTerms(t *testing.T) {
	g := NewGraph()
	sticky := testPlatform(t, 0, 100, 1.5, 0)
	bouncy := testPlatform(t, 0, 300, 0.9, 0.8)
	goal := cp.Vector{X: 0, Y: 0}

	low := g.Add(cp.Vector{X: 0, Y: 300}, bouncy)
	high := g.Add(cp.Vector{X: 0, Y: 100}, sticky)
	beside := g.Add(cp.Vector{X: 0, Y: 300}, sticky)

	cases := []struct {
		name   string
		node   Handle
		parent Handle
		want   float64
	}{
		{"no_parent", low, NoNode, 300 - 0.9*250 + 0.8*100},
		{"climb_bonus", high, low, 100 - 1.5*250 - 100},
		{"platform_hop_penalty", beside, low, 300 - 1.5*250 + 50},
		{"same_platform_descent", low, low, 300 - 0.9*250 + 0.8*100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.estimate(tc.node, tc.parent, goal); got != tc.want {
				t.Fatalf("estimate = %v, want %v", got, tc.want)
			}
		})
	}

	g.Deactivate(high)
	if got := g.estimate(high, low, goal); got != g.Heuristic.InactiveCost {
		t.Fatalf("inactive estimate = %v", got)
	}
}

func TestPathQueue(t *testing.T) {
	var empty Path
	if _, ok := empty.Pop(); ok {
		t.Fatalf("Pop on empty path succeeded")
	}
	if _, ok := empty.Peek(); ok {
		t.Fatalf("Peek on empty path succeeded")
	}

	p := NewPath(3, 1, 2)
	if h, _ := p.Peek(); h != 3 {
		t.Fatalf("Peek = %d", h)
	}
	if h, _ := p.Pop(); h != 3 || p.Len() != 2 {
		t.Fatalf("Pop = %d len=%d", h, p.Len())
	}
	if got := p.Nodes(); !slices.Equal(got, []Handle{1, 2}) {
		t.Fatalf("after pop = %v", got)
	}
	p.Clear()
	if !p.Empty() {
		t.Fatalf("Clear left %d nodes", p.Len())
	}
}

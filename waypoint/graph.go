package waypoint

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/physics"
)

var (
	ErrUnknownNode = errors.New("waypoint: unknown node")
	ErrSelfEdge    = errors.New("waypoint: node cannot neighbor itself")
)

// Handle addresses a node inside a Graph. Handles stay valid for the life
// of the graph; nodes are never removed, only deactivated.
type Handle int

const NoNode Handle = -1

// Node is a planning vertex tied to a platform. The search scratch fields
// are private and only readable through Graph.Cost after a search.
type Node struct {
	Position  cp.Vector
	Neighbors []Handle
	Platform  *physics.Body
	Active    bool
	// Temporary marks nodes synthesized during recovery. They never
	// become goals.
	Temporary bool

	g, h   float64
	parent Handle
	epoch  uint64
	state  searchState
}

type searchState uint8

const (
	unvisited searchState = iota
	open
	closed
)

// Graph is an arena of waypoint nodes with undirected edges.
type Graph struct {
	Heuristic Heuristic

	nodes []Node
	epoch uint64
}

func NewGraph() *Graph {
	return &Graph{Heuristic: DefaultHeuristic()}
}

func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

func (g *Graph) valid(h Handle) bool {
	return g != nil && h >= 0 && int(h) < len(g.nodes)
}

// Add appends an active node and returns its handle.
func (g *Graph) Add(pos cp.Vector, platform *physics.Body) Handle {
	g.nodes = append(g.nodes, Node{
		Position: pos,
		Platform: platform,
		Active:   true,
		parent:   NoNode,
	})
	return Handle(len(g.nodes) - 1)
}

// AddTemporary appends a recovery node.
func (g *Graph) AddTemporary(pos cp.Vector, platform *physics.Body) Handle {
	h := g.Add(pos, platform)
	g.nodes[h].Temporary = true
	return h
}

// Node returns a copy of the node. The Neighbors slice is shared and must
// not be modified.
func (g *Graph) Node(h Handle) (Node, bool) {
	if !g.valid(h) {
		return Node{}, false
	}
	return g.nodes[h], true
}

func (g *Graph) Position(h Handle) (cp.Vector, bool) {
	if !g.valid(h) {
		return cp.Vector{}, false
	}
	return g.nodes[h].Position, true
}

func (g *Graph) Platform(h Handle) *physics.Body {
	if !g.valid(h) {
		return nil
	}
	return g.nodes[h].Platform
}

func (g *Graph) Active(h Handle) bool {
	return g.valid(h) && g.nodes[h].Active
}

func (g *Graph) Neighbors(h Handle) []Handle {
	if !g.valid(h) {
		return nil
	}
	return g.nodes[h].Neighbors
}

// Connect links a and b in both directions. Linking an existing edge is a
// no-op.
func (g *Graph) Connect(a, b Handle) error {
	if !g.valid(a) || !g.valid(b) {
		return fmt.Errorf("waypoint: connect %d-%d: %w", a, b, ErrUnknownNode)
	}
	if a == b {
		return fmt.Errorf("waypoint: connect %d-%d: %w", a, b, ErrSelfEdge)
	}
	if !g.linked(a, b) {
		g.nodes[a].Neighbors = append(g.nodes[a].Neighbors, b)
	}
	if !g.linked(b, a) {
		g.nodes[b].Neighbors = append(g.nodes[b].Neighbors, a)
	}
	return nil
}

func (g *Graph) linked(a, b Handle) bool {
	for _, n := range g.nodes[a].Neighbors {
		if n == b {
			return true
		}
	}
	return false
}

// Isolate removes every edge touching h.
func (g *Graph) Isolate(h Handle) {
	if !g.valid(h) {
		return
	}
	for _, n := range g.nodes[h].Neighbors {
		g.nodes[n].Neighbors = without(g.nodes[n].Neighbors, h)
	}
	g.nodes[h].Neighbors = nil
}

func without(list []Handle, h Handle) []Handle {
	out := list[:0]
	for _, n := range list {
		if n != h {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) Deactivate(h Handle) {
	if g.valid(h) {
		g.nodes[h].Active = false
	}
}

// Retire deactivates and isolates a node so no search can reach it again.
func (g *Graph) Retire(h Handle) {
	g.Deactivate(h)
	g.Isolate(h)
}

// DeactivatePlatform deactivates every node owned by platform and returns
// how many were still active.
func (g *Graph) DeactivatePlatform(platform *physics.Body) int {
	if g == nil || platform == nil {
		return 0
	}
	count := 0
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Platform == platform && n.Active {
			n.Active = false
			count++
		}
	}
	return count
}

// NodesOn returns the active nodes owned by platform in insertion order.
func (g *Graph) NodesOn(platform *physics.Body) []Handle {
	if g == nil || platform == nil {
		return nil
	}
	var out []Handle
	for i, n := range g.nodes {
		if n.Platform == platform && n.Active {
			out = append(out, Handle(i))
		}
	}
	return out
}

// Translate shifts the nodes owned by platform, keeping the route attached
// to a platform that moves.
func (g *Graph) Translate(platform *physics.Body, delta cp.Vector) {
	if g == nil || platform == nil || delta == (cp.Vector{}) {
		return
	}
	for i := range g.nodes {
		if g.nodes[i].Platform == platform {
			g.nodes[i].Position = g.nodes[i].Position.Add(delta)
		}
	}
}

// Topmost returns the active, non-temporary node with the smallest Y. Ties
// keep the first node found.
func (g *Graph) Topmost() (Handle, bool) {
	if g == nil {
		return NoNode, false
	}
	best := NoNode
	for i, n := range g.nodes {
		if !n.Active || n.Temporary {
			continue
		}
		if best == NoNode || n.Position.Y < g.nodes[best].Position.Y {
			best = Handle(i)
		}
	}
	return best, best != NoNode
}

// Nearest returns the active, non-temporary node closest to p.
func (g *Graph) Nearest(p cp.Vector) (Handle, bool) {
	if g == nil {
		return NoNode, false
	}
	best := NoNode
	bestDist := math.Inf(1)
	for i, n := range g.nodes {
		if !n.Active || n.Temporary {
			continue
		}
		if d := n.Position.DistanceSq(p); d < bestDist {
			best, bestDist = Handle(i), d
		}
	}
	return best, best != NoNode
}

// Cost returns the G and H recorded for h by the most recent search. ok is
// false when that search never reached h.
func (g *Graph) Cost(h Handle) (cost, heuristic float64, ok bool) {
	if !g.valid(h) || g.epoch == 0 || g.nodes[h].epoch != g.epoch {
		return 0, 0, false
	}
	return g.nodes[h].g, g.nodes[h].h, true
}

// Parent returns the predecessor recorded for h by the most recent search.
func (g *Graph) Parent(h Handle) (Handle, bool) {
	if !g.valid(h) || g.epoch == 0 || g.nodes[h].epoch != g.epoch || g.nodes[h].parent == NoNode {
		return NoNode, false
	}
	return g.nodes[h].parent, true
}

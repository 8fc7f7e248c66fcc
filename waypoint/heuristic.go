package waypoint

import "github.com/jakecoffman/cp"

// Heuristic weights the estimated cost of stepping onto a node.
type Heuristic struct {
	// FrictionWeight rewards footing with high dynamic friction.
	FrictionWeight float64 `yaml:"friction_weight"`
	// BouncinessWeight penalises bouncy footing.
	BouncinessWeight float64 `yaml:"bounciness_weight"`
	// UpwardBonus is subtracted when the step climbs.
	UpwardBonus float64 `yaml:"upward_bonus"`
	// PlatformHopPenalty is added when the step changes platform without
	// climbing.
	PlatformHopPenalty float64 `yaml:"platform_hop_penalty"`
	// InactiveCost stands in for infinity on deactivated nodes.
	InactiveCost float64 `yaml:"inactive_cost"`
}

func DefaultHeuristic() Heuristic {
	return Heuristic{
		FrictionWeight:     250,
		BouncinessWeight:   100,
		UpwardBonus:        100,
		PlatformHopPenalty: 50,
		InactiveCost:       1e12,
	}
}

// estimate computes H for node reached from parent on the way to goal.
// Screen space is Y-down, so a climb means the parent has the larger Y.
func (g *Graph) estimate(node, parent Handle, goal cp.Vector) float64 {
	n := &g.nodes[node]
	hc := g.Heuristic
	if !n.Active {
		return hc.InactiveCost
	}

	h := n.Position.Distance(goal)
	if n.Platform != nil {
		h -= n.Platform.Friction.Dynamic * hc.FrictionWeight
		h += n.Platform.Bounciness * hc.BouncinessWeight
	}

	if parent != NoNode {
		p := &g.nodes[parent]
		switch {
		case p.Position.Y > n.Position.Y:
			h -= hc.UpwardBonus
		case p.Platform != n.Platform:
			h += hc.PlatformHopPenalty
		}
	}
	return h
}

package ai

import "github.com/milk9111/climber/waypoint"

// GoalSelector picks the node an agent should head for next.
type GoalSelector interface {
	SelectGoal(g *waypoint.Graph, c *Controller) (waypoint.Handle, bool)
}

// GoalFunc adapts a function to GoalSelector.
type GoalFunc func(g *waypoint.Graph, c *Controller) (waypoint.Handle, bool)

func (f GoalFunc) SelectGoal(g *waypoint.Graph, c *Controller) (waypoint.Handle, bool) {
	return f(g, c)
}

// TopmostGoal always aims for the highest active node.
type TopmostGoal struct{}

func (TopmostGoal) SelectGoal(g *waypoint.Graph, _ *Controller) (waypoint.Handle, bool) {
	return g.Topmost()
}

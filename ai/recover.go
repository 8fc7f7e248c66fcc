package ai

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/waypoint"
)

// recover synthesizes a node where the agent is, wires it into the graph,
// drops the route and returns to AtGoal so the next tick replans from it.
//
// When the agent's platform still has active nodes the temporary node joins
// all of them and the next plan starts fresh. Otherwise it links to the next
// queued node so the replan can reuse the old route, falling back to the
// nearest active node.
func (c *Controller) recover(reason string) {
	pos := c.body.Center()
	tmp := c.synthesize(pos, c.platform)

	mode := "full"
	linked := 0
	for _, h := range c.graph.NodesOn(c.platform) {
		if h != tmp && c.link(tmp, h) {
			linked++
		}
	}
	if linked == 0 {
		mode = "preserve"
		next, ok := c.nextActive()
		if !ok || !c.link(tmp, next) {
			mode = "nearest"
			near, found := c.graph.Nearest(pos)
			if !found || !c.link(tmp, near) {
				mode = "isolated"
			}
		}
	}

	c.path.Clear()
	c.previous = waypoint.NoNode
	c.target = tmp
	c.sub = NoSubState
	c.jumped = false
	c.dropped = false
	c.stats.Recoveries++
	log.Info("ai: recover", "agent", c.Name, "reason", reason, "mode", mode, "at", pos)
	c.setState(AtGoal)
}

// link joins tmp to h and reports whether the edge was made.
func (c *Controller) link(tmp, h waypoint.Handle) bool {
	if err := c.graph.Connect(tmp, h); err != nil {
		log.Warn("ai: recover link", "agent", c.Name, "from", tmp, "to", h, "err", err)
		return false
	}
	return true
}

// nextActive returns the first active node still queued, or the current
// target while travelling.
func (c *Controller) nextActive() (waypoint.Handle, bool) {
	for _, h := range c.path.Nodes() {
		if c.graph.Active(h) {
			return h, true
		}
	}
	if c.state == TravellingToNode && c.graph.Active(c.target) && c.target != c.temp {
		return c.target, true
	}
	return waypoint.NoNode, false
}

// synthesize retires the previous temporary node and adds a new one.
func (c *Controller) synthesize(pos cp.Vector, platform *physics.Body) waypoint.Handle {
	if c.temp != waypoint.NoNode {
		c.graph.Retire(c.temp)
	}
	c.temp = c.graph.AddTemporary(pos, platform)
	return c.temp
}

// TempNode returns the live recovery node, if any.
func (c *Controller) TempNode() (waypoint.Handle, bool) {
	return c.temp, c.temp != waypoint.NoNode
}

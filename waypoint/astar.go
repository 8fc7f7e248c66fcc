package waypoint

// FindPath runs A* from start to goal and returns the route excluding start.
// The result is empty when either end is missing, when start equals goal or
// when goal cannot be reached. An inactive goal is searched like any other
// inactive node, at the sentinel cost.
//
// G accrues the parent's heuristic (G = parent.G + parent.H) rather than an
// edge length. When a neighbor already in the open list is reached again, the
// candidate G+H is compared against the cost cached on the neighbor's
// current parent.
//
// Searches write scratch fields on the nodes and must not run concurrently
// on one graph.
func (g *Graph) FindPath(start, goal Handle) Path {
	if !g.valid(start) || !g.valid(goal) || start == goal {
		return Path{}
	}

	g.epoch++
	goalPos := g.nodes[goal].Position

	g.touch(start, NoNode, 0, g.estimate(start, NoNode, goalPos))
	openList := []Handle{start}
	g.nodes[start].state = open

	found := false
	for len(openList) > 0 {
		best := 0
		for i := 1; i < len(openList); i++ {
			if g.total(openList[i]) < g.total(openList[best]) {
				best = i
			}
		}
		cur := openList[best]
		openList = append(openList[:best], openList[best+1:]...)
		g.nodes[cur].state = closed

		if cur == goal {
			found = true
			break
		}

		curG := g.nodes[cur].g + g.nodes[cur].h
		for _, nb := range g.nodes[cur].Neighbors {
			if g.stateOf(nb) == closed {
				continue
			}
			h := g.estimate(nb, cur, goalPos)
			if g.stateOf(nb) != open {
				g.touch(nb, cur, curG, h)
				g.nodes[nb].state = open
				openList = append(openList, nb)
				continue
			}
			recorded := g.nodes[nb].parent
			if recorded != NoNode && curG+h < g.total(recorded) {
				g.nodes[nb].parent = cur
				g.nodes[nb].g = curG
				g.nodes[nb].h = h
			}
		}
	}

	if !found {
		return Path{}
	}
	return g.reconstruct(start, goal)
}

func (g *Graph) touch(h, parent Handle, cost, heuristic float64) {
	n := &g.nodes[h]
	n.epoch = g.epoch
	n.parent = parent
	n.g = cost
	n.h = heuristic
	n.state = unvisited
}

func (g *Graph) stateOf(h Handle) searchState {
	if g.nodes[h].epoch != g.epoch {
		return unvisited
	}
	return g.nodes[h].state
}

func (g *Graph) total(h Handle) float64 {
	return g.nodes[h].g + g.nodes[h].h
}

func (g *Graph) reconstruct(start, goal Handle) Path {
	var rev []Handle
	for cur := goal; cur != start && cur != NoNode; cur = g.nodes[cur].parent {
		if len(rev) > len(g.nodes) {
			return Path{}
		}
		rev = append(rev, cur)
	}
	out := make([]Handle, len(rev))
	for i, h := range rev {
		out[len(rev)-1-i] = h
	}
	return Path{nodes: out}
}

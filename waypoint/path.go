package waypoint

// Path is an ordered route consumed front to back. The zero value is an
// empty path.
type Path struct {
	nodes []Handle
}

func NewPath(nodes ...Handle) Path {
	return Path{nodes: append([]Handle(nil), nodes...)}
}

func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.nodes)
}

func (p *Path) Empty() bool {
	return p.Len() == 0
}

// Peek returns the front node without consuming it.
func (p *Path) Peek() (Handle, bool) {
	if p.Empty() {
		return NoNode, false
	}
	return p.nodes[0], true
}

// Pop removes and returns the front node.
func (p *Path) Pop() (Handle, bool) {
	if p.Empty() {
		return NoNode, false
	}
	h := p.nodes[0]
	p.nodes = p.nodes[1:]
	return h, true
}

// Nodes returns a copy of the remaining route.
func (p *Path) Nodes() []Handle {
	if p == nil {
		return nil
	}
	return append([]Handle(nil), p.nodes...)
}

func (p *Path) Clear() {
	if p != nil {
		p.nodes = nil
	}
}

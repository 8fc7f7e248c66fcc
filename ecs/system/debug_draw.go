package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/waypoint"
	"golang.org/x/image/colornames"
)

const (
	debugNodeRadius = 3
	debugLineWidth  = 1
)

var materialColors = map[string]color.Color{
	"standard": colornames.Steelblue,
	"ice":      colornames.Lightcyan,
	"sticky":   colornames.Olivedrab,
	"bouncy":   colornames.Hotpink,
}

// DebugDrawSystem renders bodies, the waypoint graph, agent routes and the
// last tick's contacts. It does nothing on Update.
type DebugDrawSystem struct {
	Graph     *waypoint.Graph
	Collision *CollisionSystem
	ShowGraph bool
	ShowText  bool
}

func NewDebugDrawSystem(graph *waypoint.Graph, collision *CollisionSystem) *DebugDrawSystem {
	return &DebugDrawSystem{Graph: graph, Collision: collision, ShowGraph: true, ShowText: true}
}

func (s *DebugDrawSystem) Update(*ecs.World) {}

func (s *DebugDrawSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.PlatformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, p *component.Platform) {
		clr, ok := materialColors[p.Material]
		if !ok {
			clr = colornames.Gray
		}
		drawBody(screen, pb.Body, clr, true)
		if b, ok := ecs.Get(w, e, component.BehaviorComponent.Kind()); ok && b.Kind != component.BehaviorStatic {
			outline := colornames.White
			if b.Falling != nil && b.Falling.Triggered {
				outline = colornames.Orangered
			}
			drawBody(screen, pb.Body, outline, false)
		}
	})

	if s.ShowGraph {
		s.drawGraph(screen)
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.BehaviorComponent.Kind(), func(_ ecs.Entity, pb *component.PhysicsBody, b *component.Behavior) {
		if b.Kind != component.BehaviorAgent || b.Agent == nil {
			return
		}
		drawBody(screen, pb.Body, colornames.Gold, true)
		s.drawRoute(screen, b.Agent.Controller)
		if s.ShowText {
			c := b.Agent.Controller
			text := fmt.Sprintf("%s\n%s\n%s", c.Name, c.State(), c.SubState())
			ebitenutil.DebugPrintAt(screen, text, int(pb.Body.Right())+4, int(pb.Body.Top())-24)
		}
	})

	if s.Collision != nil {
		for _, c := range s.Collision.Contacts() {
			end := c.Point.Add(c.Normal.Mult(8))
			strokeLine(screen, c.Point, end, colornames.Red)
		}
	}
}

func (s *DebugDrawSystem) drawGraph(screen *ebiten.Image) {
	if s.Graph == nil {
		return
	}
	for i := 0; i < s.Graph.Len(); i++ {
		h := waypoint.Handle(i)
		n, ok := s.Graph.Node(h)
		if !ok {
			continue
		}
		for _, nb := range n.Neighbors {
			if nb < h {
				continue
			}
			if pos, ok := s.Graph.Position(nb); ok {
				strokeLine(screen, n.Position, pos, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x60})
			}
		}
	}
	for i := 0; i < s.Graph.Len(); i++ {
		n, ok := s.Graph.Node(waypoint.Handle(i))
		if !ok {
			continue
		}
		var clr color.Color = colornames.Limegreen
		switch {
		case n.Temporary:
			clr = colornames.Orange
		case !n.Active:
			clr = colornames.Dimgray
		}
		vector.FillCircle(screen, float32(n.Position.X), float32(n.Position.Y), debugNodeRadius, clr, true)
	}
}

func (s *DebugDrawSystem) drawRoute(screen *ebiten.Image, c *ai.Controller) {
	if c == nil || c.State() != ai.TravellingToNode {
		return
	}
	from := c.Body().Center()
	route := append([]waypoint.Handle{c.Target()}, c.Path()...)
	for _, h := range route {
		pos, ok := s.Graph.Position(h)
		if !ok {
			continue
		}
		strokeLine(screen, from, pos, colornames.Crimson)
		from = pos
	}
}

func drawBody(screen *ebiten.Image, b *physics.Body, clr color.Color, fill bool) {
	if b == nil {
		return
	}
	x, y := float32(b.Position.X), float32(b.Position.Y)
	w, h := float32(b.Size.X), float32(b.Size.Y)
	if fill {
		vector.FillRect(screen, x, y, w, h, clr, false)
		return
	}
	vector.StrokeRect(screen, x, y, w, h, debugLineWidth, clr, false)
}

func strokeLine(screen *ebiten.Image, a, b cp.Vector, clr color.Color) {
	vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), debugLineWidth, clr, true)
}

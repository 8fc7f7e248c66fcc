package system

import (
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/ecs/component"
	"github.com/milk9111/climber/physics"
)

type IntegrateSystem struct {
	Ctx *physics.Context
	DT  float64
}

func NewIntegrateSystem(ctx *physics.Context, dt float64) *IntegrateSystem {
	return &IntegrateSystem{Ctx: ctx, DT: dt}
}

func (s *IntegrateSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, pb *component.PhysicsBody) {
		pb.Body.Step(s.DT, s.Ctx)
	})
}

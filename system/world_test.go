package system

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/physics"
	"github.com/milk9111/climber/prefabs"
	"github.com/milk9111/climber/waypoint"
)

func TestLoadLevels(t *testing.T) {
	cases := []struct {
		level     string
		platforms int
		agents    int
		wantErr   bool
	}{
		{"steps", 3, 1, false},
		{"tower", 12, 1, false},
		{"nowhere", 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			w, err := NewWorld(tc.level, false)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewWorld: %v", err)
			}
			if got := len(w.Level.Platforms); got != tc.platforms {
				t.Fatalf("platforms = %d", got)
			}
			if got := len(w.Agents()); got != tc.agents {
				t.Fatalf("agents = %d", got)
			}
			if w.Graph.Len() != len(w.Level.Nodes) {
				t.Fatalf("graph has %d nodes, level %d", w.Graph.Len(), len(w.Level.Nodes))
			}
		})
	}
}

func TestStepAdvances(t *testing.T) {
	w, err := NewWorld("steps", false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		w.Step()
	}
	if w.Tick() != 120 {
		t.Fatalf("tick = %d", w.Tick())
	}
	agents := w.Agents()
	if len(agents) != 1 {
		t.Fatalf("agents = %d", len(agents))
	}
	a := agents[0]
	if a.Stats.Replans == 0 {
		t.Fatalf("agent never planned")
	}
	if a.Name != "climber" || a.Target == waypoint.NoNode {
		t.Fatalf("unexpected agent %+v", a)
	}
	for _, v := range []float64{a.Position.X, a.Position.Y, a.Velocity.X, a.Velocity.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite state %+v", a)
		}
	}
}

func TestDeterministicRuns(t *testing.T) {
	run := func() []AgentStatus {
		w, err := NewWorld("tower", false)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 900; i++ {
			w.Step()
		}
		return w.Agents()
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("agent count diverged: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Position != b[i].Position || a[i].Velocity != b[i].Velocity || a[i].State != b[i].State || a[i].Stats != b[i].Stats {
			t.Fatalf("run diverged at agent %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestApplyChange(t *testing.T) {
	w, err := NewWorld("steps", false)
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []prefabs.ChangeKind{prefabs.ChangePhysics, prefabs.ChangeAgent, prefabs.ChangePlatforms, prefabs.ChangeScript, prefabs.ChangeOther} {
		t.Run(kind.String(), func(t *testing.T) {
			if err := w.ApplyChange(kind); err != nil {
				t.Fatalf("ApplyChange: %v", err)
			}
		})
	}
	if w.DT() != 1.0/60 {
		t.Fatalf("dt = %v", w.DT())
	}
	if w.Context().Gravity.Y != 98 {
		t.Fatalf("context = %+v", w.Context())
	}
}

func TestReloadClearsState(t *testing.T) {
	w, err := NewWorld("steps", false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		w.Step()
	}
	if err := w.Load("tower"); err != nil {
		t.Fatal(err)
	}
	if w.Tick() != 0 || w.Level.Name != "tower" {
		t.Fatalf("reload kept old state: tick=%d level=%s", w.Tick(), w.Level.Name)
	}
}

func TestStepsLevelClimbsToTop(t *testing.T) {
	w, err := NewWorld("steps", false)
	if err != nil {
		t.Fatal(err)
	}
	top, ok := w.Graph.Topmost()
	if !ok {
		t.Fatal("steps has no topmost node")
	}

	arrived := -1
	var reachedEvents []ecs.Event
	for i := 0; i < 1800; i++ {
		w.Step()
		for _, evt := range w.Events() {
			if evt.Type == ecs.EventNodeReached {
				reachedEvents = append(reachedEvents, evt)
			}
		}
		a := w.Agents()[0]
		if a.State == ai.AtGoal && a.Target == top && a.Stats.NodesReached > 0 {
			arrived = w.Tick()
			break
		}
	}
	if arrived < 0 {
		a := w.Agents()[0]
		t.Fatalf("agent never reached node %d: at %v state %v/%v target %d stats %+v",
			top, a.Position, a.State, a.SubState, a.Target, a.Stats)
	}
	settled := w.Agents()[0]
	if settled.Stats.NodesReached < 3 {
		t.Fatalf("reached the top after only %d nodes", settled.Stats.NodesReached)
	}
	if len(reachedEvents) != settled.Stats.NodesReached {
		t.Fatalf("%d node events for %d nodes reached", len(reachedEvents), settled.Stats.NodesReached)
	}
	if last := reachedEvents[len(reachedEvents)-1]; last.Data != top || last.Entity != settled.Entity {
		t.Fatalf("last node event = %+v, want node %d", last, top)
	}

	// Standing on the goal must not keep replanning.
	for i := 0; i < 600; i++ {
		w.Step()
	}
	a := w.Agents()[0]
	if a.State != ai.AtGoal || a.Target != top {
		t.Fatalf("agent left the goal: state %v target %d", a.State, a.Target)
	}
	if a.Stats.Replans != settled.Stats.Replans {
		t.Fatalf("replans grew from %d to %d while idle at the goal", settled.Stats.Replans, a.Stats.Replans)
	}
}

func TestApplyAgentChangeRetunesBodies(t *testing.T) {
	base, err := prefabs.Load(prefabs.AgentFile)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name     string
		mass     string
		wantErr  error
		wantMass float64
	}{
		{"heavier", "0.75", nil, 0.75},
		{"zero_mass_rejected", "0", physics.ErrInvalidMass, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			old := prefabs.DiskDir
			prefabs.DiskDir = dir
			t.Cleanup(func() { prefabs.DiskDir = old })

			w, err := NewWorld("steps", false)
			if err != nil {
				t.Fatal(err)
			}

			src := strings.Replace(string(base), "mass: 0.5", "mass: "+tc.mass, 1)
			src = strings.Replace(src, "speed: 50", "speed: 60", 1)
			src = strings.Replace(src, "dynamic: 0.2", "dynamic: 0.3", 1)
			if err := os.WriteFile(filepath.Join(dir, prefabs.AgentFile), []byte(src), 0o644); err != nil {
				t.Fatal(err)
			}

			err = w.ApplyChange(prefabs.ChangeAgent)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ApplyChange err = %v, want %v", err, tc.wantErr)
			}
			c := w.Controllers()[0]
			if got := c.Body().Mass(); got != tc.wantMass {
				t.Fatalf("mass = %v, want %v", got, tc.wantMass)
			}
			if tc.wantErr != nil {
				return
			}
			if c.Config().Speed != 60 {
				t.Fatalf("speed = %v", c.Config().Speed)
			}
			if c.Body().Friction.Dynamic != 0.3 {
				t.Fatalf("friction = %+v", c.Body().Friction)
			}
		})
	}
}

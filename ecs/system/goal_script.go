package system

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/prefabs"
	"github.com/milk9111/climber/waypoint"
)

const goalDispatchScript = `
__result = select_goal(__nodes, __agent)
`

// ScriptGoal picks navigation goals by running a tengo script. The script
// defines select_goal(nodes, agent) and returns a node id or -1. Script
// failures fall back to the topmost node.
type ScriptGoal struct {
	Path     string
	compiled *tengo.Compiled
	fallback ai.TopmostGoal
}

func NewScriptGoal(path string) (*ScriptGoal, error) {
	s := &ScriptGoal{Path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload recompiles the script. The previous version stays in use when the
// new one fails to compile.
func (s *ScriptGoal) Reload() error {
	src, err := prefabs.LoadScript(s.Path)
	if err != nil {
		return fmt.Errorf("goal: load %s: %w", s.Path, err)
	}
	compiled, err := compileGoalScript(src)
	if err != nil {
		return fmt.Errorf("goal: compile %s: %w", s.Path, err)
	}
	s.compiled = compiled
	return nil
}

func compileGoalScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + goalDispatchScript))
	_ = script.Add("__nodes", []any{})
	_ = script.Add("__agent", map[string]any{})
	_ = script.Add("__result", -1)
	_ = script.Add("log", &tengo.UserFunction{Name: "log", Value: scriptLog})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

func (s *ScriptGoal) SelectGoal(g *waypoint.Graph, c *ai.Controller) (waypoint.Handle, bool) {
	h, err := s.run(g, c)
	if err != nil {
		log.Warn("goal: script failed, using topmost", "path", s.Path, "err", err)
		return s.fallback.SelectGoal(g, c)
	}
	if !g.Active(h) {
		return waypoint.NoNode, false
	}
	return h, true
}

func (s *ScriptGoal) run(g *waypoint.Graph, c *ai.Controller) (waypoint.Handle, error) {
	if s.compiled == nil {
		return waypoint.NoNode, fmt.Errorf("not compiled")
	}
	if err := s.compiled.Set("__nodes", scriptNodes(g)); err != nil {
		return waypoint.NoNode, err
	}
	if err := s.compiled.Set("__agent", scriptAgent(c)); err != nil {
		return waypoint.NoNode, err
	}
	if err := s.compiled.Set("__result", -1); err != nil {
		return waypoint.NoNode, err
	}
	if err := s.compiled.Run(); err != nil {
		return waypoint.NoNode, err
	}
	switch v := s.compiled.Get("__result").Object().(type) {
	case *tengo.Int:
		return waypoint.Handle(v.Value), nil
	case *tengo.Undefined:
		return waypoint.NoNode, nil
	default:
		return waypoint.NoNode, fmt.Errorf("select_goal returned %s", v.TypeName())
	}
}

func scriptNodes(g *waypoint.Graph) *tengo.Array {
	arr := &tengo.Array{Value: make([]tengo.Object, 0, g.Len())}
	for i := 0; i < g.Len(); i++ {
		n, ok := g.Node(waypoint.Handle(i))
		if !ok {
			continue
		}
		values := map[string]tengo.Object{
			"id":        &tengo.Int{Value: int64(i)},
			"x":         &tengo.Float{Value: n.Position.X},
			"y":         &tengo.Float{Value: n.Position.Y},
			"active":    scriptBool(n.Active),
			"temporary": scriptBool(n.Temporary),
		}
		if n.Platform != nil {
			values["friction"] = &tengo.Float{Value: n.Platform.Friction.Dynamic}
			values["bounciness"] = &tengo.Float{Value: n.Platform.Bounciness}
		}
		arr.Value = append(arr.Value, &tengo.ImmutableMap{Value: values})
	}
	return arr
}

func scriptAgent(c *ai.Controller) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	if c == nil {
		return &tengo.ImmutableMap{Value: values}
	}
	center := c.Body().Center()
	values["name"] = &tengo.String{Value: c.Name}
	values["x"] = &tengo.Float{Value: center.X}
	values["y"] = &tengo.Float{Value: center.Y}
	values["target"] = &tengo.Int{Value: int64(c.Target())}
	values["state"] = &tengo.String{Value: c.State().String()}
	values["grounded"] = scriptBool(c.Grounded())
	return &tengo.ImmutableMap{Value: values}
}

func scriptBool(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func scriptLog(args ...tengo.Object) (tengo.Object, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if s, ok := a.(*tengo.String); ok {
			parts = append(parts, s.Value)
			continue
		}
		parts = append(parts, a.String())
	}
	log.Debug("goal: script", "msg", strings.Join(parts, " "))
	return tengo.UndefinedValue, nil
}

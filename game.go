package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/climber/common"
	"github.com/milk9111/climber/prefabs"
	"github.com/milk9111/climber/system"
	"golang.org/x/image/colornames"
)

type Game struct {
	world   *system.World
	watcher *prefabs.Watcher
	level   string
	paused  bool
	frames  int
}

func NewGame(levelName string, debug, watch bool) (*Game, error) {
	world, err := system.NewWorld(levelName, debug)
	if err != nil {
		return nil, err
	}
	g := &Game{world: world, level: levelName}
	if watch {
		w, err := prefabs.NewWatcher(prefabs.DiskDir, prefabs.DiskDir+"/scripts")
		if err != nil {
			log.Warn("climber: hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.applyReloads()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.world.Load(g.level); err != nil {
			log.Error("climber: reload level", "level", g.level, "err", err)
		}
	}

	if !g.paused || inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.world.Step()
	}
	return nil
}

// applyReloads drains pending prefab changes without blocking.
func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ch, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.world.ApplyChange(ch.Kind); err != nil {
				log.Error("climber: hot reload", "path", ch.Path, "err", err)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Warn("climber: watch", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	g.world.Draw(screen)

	status := fmt.Sprintf("tick %d  FPS %.1f", g.world.Tick(), ebiten.ActualFPS())
	for _, a := range g.world.Agents() {
		status += fmt.Sprintf("\n%s %s/%s reached=%d replans=%d recoveries=%d",
			a.Name, a.State, a.SubState, a.Stats.NodesReached, a.Stats.Replans, a.Stats.Recoveries)
	}
	if g.paused {
		status += "\npaused (space: resume, n: step)"
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.ScreenWidth, common.ScreenHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

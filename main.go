package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/climber/common"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and contact drawing")
	levelName := flag.String("level", "tower", "level name in levels/ (basename, .json optional)")
	watch := flag.Bool("watch", true, "hot reload prefabs/ when files change")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	game, err := NewGame(*levelName, *debug, *watch)
	if err != nil {
		log.Error("climber: start", "err", err)
		os.Exit(1)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.ScreenWidth, common.ScreenHeight)
	ebiten.SetWindowTitle("climber")
	ebiten.SetTPS(common.TPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Error("climber: run", "err", err)
		os.Exit(1)
	}
}

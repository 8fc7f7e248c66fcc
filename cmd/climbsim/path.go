package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/climber/system"
	"github.com/milk9111/climber/waypoint"
)

var (
	flagFrom int
	flagTo   int
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the route between two waypoint nodes",
	Long: `Runs the path finder on the level's waypoint graph and prints every node
on the route with its recorded cost. --to defaults to the topmost node.`,
	RunE: runPath,
}

func init() {
	pathCmd.Flags().IntVar(&flagFrom, "from", 0, "Start node")
	pathCmd.Flags().IntVar(&flagTo, "to", -1, "Goal node (-1 = topmost)")
}

func runPath(cmd *cobra.Command, args []string) error {
	w, err := system.NewWorld(flagLevel, false)
	if err != nil {
		return err
	}
	g := w.Graph

	from, to := waypoint.Handle(flagFrom), waypoint.Handle(flagTo)
	if _, ok := g.Node(from); !ok {
		return fmt.Errorf("--from %d: %w", flagFrom, waypoint.ErrUnknownNode)
	}
	if to == waypoint.NoNode {
		top, ok := g.Topmost()
		if !ok {
			return fmt.Errorf("level %s has no active nodes", w.Level.Name)
		}
		to = top
	}
	if _, ok := g.Node(to); !ok {
		return fmt.Errorf("--to %d: %w", flagTo, waypoint.ErrUnknownNode)
	}

	route := g.FindPath(from, to)
	if route.Empty() {
		fmt.Printf("no route from %d to %d\n", from, to)
		return nil
	}

	start, _ := g.Position(from)
	fmt.Printf("%3d  (%6.1f, %6.1f)  start\n", from, start.X, start.Y)
	for _, h := range route.Nodes() {
		pos, _ := g.Position(h)
		cost, est, _ := g.Cost(h)
		fmt.Printf("%3d  (%6.1f, %6.1f)  g=%.1f h=%.1f\n", h, pos.X, pos.Y, cost, est)
	}
	return nil
}

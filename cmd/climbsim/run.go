package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/climber/ai"
	"github.com/milk9111/climber/ecs"
	"github.com/milk9111/climber/system"
)

var (
	flagTicks int
	flagEvery int
	flagUntil bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation headless",
	Long: `Steps the level for --ticks fixed ticks, logging a status line for every
agent each --every ticks and a summary at the end.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagTicks, "ticks", 1800, "Number of ticks to simulate")
	runCmd.Flags().IntVar(&flagEvery, "every", 60, "Log agent status every N ticks (0 = never)")
	runCmd.Flags().BoolVar(&flagUntil, "until-goal", false, "Stop early once every agent is at its goal")
}

func runRun(cmd *cobra.Command, args []string) error {
	if flagTicks <= 0 {
		return fmt.Errorf("--ticks must be positive, got %d", flagTicks)
	}
	w, err := system.NewWorld(flagLevel, log.GetLevel() == log.DebugLevel)
	if err != nil {
		return err
	}

	for i := 0; i < flagTicks; i++ {
		w.Step()
		for _, evt := range w.Events() {
			if evt.Type == ecs.EventNodeReached {
				log.Info("node reached", "tick", w.Tick(), "entity", evt.Entity, "node", evt.Data)
			}
		}
		if flagEvery > 0 && w.Tick()%flagEvery == 0 {
			for _, a := range w.Agents() {
				log.Info("agent", "tick", w.Tick(), "name", a.Name, "x", round(a.Position.X), "y", round(a.Position.Y),
					"state", a.State, "sub", a.SubState, "target", a.Target)
			}
		}
		if flagUntil && i > 0 && allAtGoal(w.Agents()) {
			break
		}
	}

	fmt.Printf("level %s after %d ticks (%.1fs)\n", w.Level.Name, w.Tick(), float64(w.Tick())*w.DT())
	agents := w.Agents()
	if len(agents) == 0 {
		fmt.Println("  no agents left")
	}
	for _, a := range agents {
		fmt.Printf("  %-10s pos=(%.1f, %.1f) state=%s/%s reached=%d replans=%d recoveries=%d\n",
			a.Name, a.Position.X, a.Position.Y, a.State, a.SubState,
			a.Stats.NodesReached, a.Stats.Replans, a.Stats.Recoveries)
	}
	return nil
}

func allAtGoal(agents []system.AgentStatus) bool {
	if len(agents) == 0 {
		return false
	}
	for _, a := range agents {
		if a.State != ai.AtGoal || a.Stats.NodesReached == 0 {
			return false
		}
	}
	return true
}

func round(v float64) float64 {
	return float64(int(v*10)) / 10
}

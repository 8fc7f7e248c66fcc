// climbsim runs the climber simulation headless.
//
// Usage:
//
//	climbsim levels                     - List embedded levels
//	climbsim run --level tower          - Run a fixed number of ticks and report agents
//	climbsim path --from 0 --to 7       - Print the A* route between two nodes
//
// Global flags:
//
//	--level <name>       - Level to load (default: tower)
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagLevel    string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "climbsim",
	Short: "Headless platformer navigation simulator",
	Long: `climbsim loads a level, spawns its agents and steps the physics and
navigation at a fixed 60 ticks per second without opening a window.

Examples:
  climbsim levels
  climbsim run --level tower --ticks 3600 --every 120
  climbsim path --level steps --from 0 --to 5`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		log.SetDefault(log.NewWithOptions(os.Stderr, log.Options{
			Level:           level,
			ReportTimestamp: level == log.DebugLevel,
			Prefix:          "climbsim",
		}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLevel, "level", "tower", "Level name")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pathCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/climber/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List embedded levels",
	RunE:  runLevels,
}

func runLevels(cmd *cobra.Command, args []string) error {
	names, err := levels.List()
	if err != nil {
		return err
	}

	fmt.Printf("  %-10s  %9s  %5s  %6s\n", "Name", "Platforms", "Nodes", "Agents")
	fmt.Printf("  %-10s  %9s  %5s  %6s\n", "----", "---------", "-----", "------")
	for _, name := range names {
		lvl, err := levels.Load(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s  %9d  %5d  %6d\n", name, len(lvl.Platforms), len(lvl.Nodes), len(lvl.Agents))
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-strategy/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List all available world themes",
	Long:  `Shows every registered theme with its terrain table and placements.`,
	Run:   runThemes,
}

func runThemes(cmd *cobra.Command, args []string) {
	names := theme.List()

	if len(names) == 0 {
		fmt.Println("No themes available.")
		return
	}

	fmt.Println("Available themes:")
	fmt.Println()

	for _, name := range names {
		th, err := theme.Get(name)
		if err != nil {
			continue
		}

		fmt.Printf("  %s\n", th.Name)
		for _, tc := range th.Terrains {
			walk := "walkable"
			if !tc.Walkable {
				walk = "blocked"
			}
			fmt.Printf("    %d  %-16s %-8s yield %.1f\n", tc.ID, tc.Name, walk, tc.ResourceYield)
		}
		if len(th.ResourceNodes) > 0 {
			fmt.Printf("    resources:")
			for _, n := range th.ResourceNodes {
				fmt.Printf(" %s x%d", n.Name, n.Count)
			}
			fmt.Println()
		}
		if len(th.Hazards) > 0 {
			fmt.Printf("    hazards:  ")
			for _, n := range th.Hazards {
				fmt.Printf(" %s x%d", n.Name, n.Count)
			}
			fmt.Println()
		}
		fmt.Println()
	}

	fmt.Println("Run 'strategy watch --theme <name>' to watch a session.")
}

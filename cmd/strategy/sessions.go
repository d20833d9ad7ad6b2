package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-strategy/internal/storage"
)

var (
	flagSessionsLimit int
	flagSessionsTheme string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recently saved sessions",
	Long: `Lists saved sessions with their seeds and outcomes, newest first.

Examples:
  strategy sessions
  strategy sessions --limit 50
  strategy sessions --theme FIRE`,
	Run: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionsLimit, "limit", 20, "Maximum number of sessions to show")
	sessionsCmd.Flags().StringVar(&flagSessionsTheme, "theme", "", "Only show sessions for this theme")
}

func runSessions(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open sessions database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var records []storage.SessionRecord
	if flagSessionsTheme != "" {
		records, err = store.SessionsByTheme(flagSessionsTheme, flagSessionsLimit)
	} else {
		records, err = store.RecentSessions(flagSessionsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No sessions saved yet. Run 'strategy run' to create one.")
		return
	}

	fmt.Printf("  %-4s %-20s %-10s %-9s %-8s %-9s %s\n",
		"ID", "Seed", "Theme", "Size", "Ticks", "Winner", "Played")
	for _, r := range records {
		winner := "-"
		if r.Winner >= 0 {
			winner = fmt.Sprintf("player %d", r.Winner)
		}
		fmt.Printf("  %-4d %-20d %-10s %3dx%-5d %-8d %-9s %s\n",
			r.ID, r.Seed, r.Theme, r.Width, r.Height, r.Ticks, winner,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Run 'strategy verify <id>' to verify a session's replay.")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "worldbox",
		Short: "Worldbox - a simulated workplace sandbox for agent programs",
		Long: `worldbox hosts an in-memory workplace world (directory, calendars,
conference rooms) and an interactive sandbox that runs programs against
it, capturing their output and errors as data instead of crashing.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Path to a worldbox.yaml config file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSeedCmd(),
		newRunCmd(),
		newSnapshotCmd(),
		newArchiveListCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/worldbox/worldbox/internal/apps"
	"github.com/worldbox/worldbox/internal/config"
	"github.com/worldbox/worldbox/internal/logging"
	"github.com/worldbox/worldbox/internal/snapshot"
	"github.com/worldbox/worldbox/internal/world"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [program file]",
		Short: "Run a program in the sandbox, optionally against a saved world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			worldPath, _ := cmd.Flags().GetString("world")
			imports, _ := cmd.Flags().GetString("imports")
			archiveRun, _ := cmd.Flags().GetString("archive-as")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			apps.Configure(cfg.Search.FuzzyThreshold, cfg.Search.FuzzyLimit,
				cfg.Recurrence.MaxOccurrences)

			program, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read program: %w", err)
			}

			ctx, err := world.NewContext()
			if err != nil {
				return err
			}
			if worldPath != "" {
				snap, err := snapshot.Load(worldPath)
				if err != nil {
					return err
				}
				if err := ctx.FromSnapshot(snap); err != nil {
					return err
				}
			}
			restore := world.Scoped(ctx)
			defer restore()

			initial := ctx.Snapshot()
			logger.Debug("executing program", "file", args[0], "world", worldPath)

			msg, err := world.ExecuteProgram(string(program), imports)
			if err != nil {
				return err
			}
			final := ctx.Snapshot()

			if archiveRun != "" {
				archive, err := snapshot.OpenArchive(cfg.Archive.Path)
				if err != nil {
					return err
				}
				defer archive.Close()
				id, err := archive.SaveRun(archiveRun, initial, final)
				if err != nil {
					return err
				}
				logger.Info("archived run", "name", archiveRun, "id", id)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(msg)
			}
			fmt.Println(msg.Content)
			if !msg.OK() {
				return fmt.Errorf("program failed: %s", msg.Exception)
			}
			return nil
		},
	}
	cmd.Flags().String("world", "", "Snapshot file to load the world from")
	cmd.Flags().String("imports", "", "Import preamble prepended to the program")
	cmd.Flags().String("archive-as", "", "Archive the run's initial and final state under this name")
	return cmd
}

// loadConfig resolves configuration honoring the global --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/worldbox/worldbox/internal/snapshot"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect and compare world snapshots",
	}
	cmd.AddCommand(newSnapshotDiffCmd())
	return cmd
}

func newSnapshotDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [before] [after]",
		Short: "Show the row-level differences between two snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			after, err := snapshot.Load(args[1])
			if err != nil {
				return err
			}

			diffs := snapshot.Diff(before, after)
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(diffs)
			}
			if len(diffs) == 0 {
				fmt.Println("Snapshots are identical")
				return nil
			}
			for _, d := range diffs {
				fmt.Printf("%s: %d row(s) removed, %d row(s) added\n",
					d.Namespace, len(d.Missing), len(d.Extra))
			}
			return nil
		},
	}
}

func newArchiveListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive-list",
		Short: "List archived runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			archive, err := snapshot.OpenArchive(cfg.Archive.Path)
			if err != nil {
				return err
			}
			defer archive.Close()

			runs, err := archive.ListRuns()
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No archived runs")
				return nil
			}
			for _, run := range runs {
				fmt.Printf("%d\t%s\t%s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Name)
			}
			return nil
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/worldbox/worldbox/internal/apps"
	"github.com/worldbox/worldbox/internal/orgsim"
	"github.com/worldbox/worldbox/internal/snapshot"
	"github.com/worldbox/worldbox/internal/world"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Build a simulated company world and save it as a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			userName, _ := cmd.Flags().GetString("user")
			userTeam, _ := cmd.Flags().GetString("team")
			userRole, _ := cmd.Flags().GetString("role")
			namesFlag, _ := cmd.Flags().GetString("names")
			out, _ := cmd.Flags().GetString("out")
			jsonOut, _ := cmd.Flags().GetBool("json")

			var names []string
			if namesFlag != "" {
				names = strings.Split(namesFlag, ",")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			apps.Configure(cfg.Search.FuzzyThreshold, cfg.Search.FuzzyLimit,
				cfg.Recurrence.MaxOccurrences)

			ctx, err := world.NewContext()
			if err != nil {
				return err
			}
			restore := world.Scoped(ctx)
			defer restore()

			builder := orgsim.NewBuilder(seed)
			org, err := builder.BuildOrg(names, userName, userTeam, userRole)
			if err != nil {
				return err
			}
			if err := builder.WriteToDatabase(org); err != nil {
				return err
			}

			if err := snapshot.Save(out, ctx.Snapshot()); err != nil {
				return err
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"employees": org.Size(),
					"snapshot":  out,
				})
			} else {
				fmt.Printf("Seeded %d employees, snapshot written to %s\n", org.Size(), out)
			}
			return nil
		},
	}
	cmd.Flags().Int64("seed", 0, "Random seed for reproducible worlds")
	cmd.Flags().String("user", "Horace", "Name of the employee acting as the user")
	cmd.Flags().String("team", orgsim.TeamEngineering, "Team of the user")
	cmd.Flags().String("role", orgsim.RoleTeamMember, "Role of the user")
	cmd.Flags().String("names", "", "Comma-separated employee name pool")
	cmd.Flags().String("out", "world.json", "Snapshot output path")
	return cmd
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"cricdb/internal/bootstrap"
	"cricdb/internal/bootstrap/logging"
	"cricdb/internal/errs"
	persistrepo "cricdb/internal/infrastructure/persistence/repository"
	"cricdb/internal/usecase/ingest"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row counts per table",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		repo := persistrepo.NewMatchRepository(app.DB)
		counts, err := repo.TableCounts(ctx)
		if err != nil {
			return errs.Wrap(err, "query table counts")
		}

		for _, line := range []struct {
			name  string
			count int64
		}{
			{"people", counts.People},
			{"matches", counts.Matches},
			{"match_awards", counts.Awards},
			{"officials", counts.Officials},
			{"team_players", counts.TeamPlayers},
			{"deliveries", counts.Deliveries},
		} {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-14s %d\n", line.name, line.count); err != nil {
				return errs.Wrap(err, "write stats output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

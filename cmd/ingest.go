package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cricdb/internal/bootstrap"
	"cricdb/internal/bootstrap/logging"
	"cricdb/internal/errs"
	"cricdb/internal/usecase/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest match documents into the database",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		matchesDir, _ := cmd.Flags().GetString("matches")
		formats, _ := cmd.Flags().GetStringSlice("format")
		workers, _ := cmd.Flags().GetInt("workers")

		if matchesDir == "" {
			matchesDir = app.Config.Ingest.MatchesDir
		}
		if len(formats) == 0 {
			formats = app.Config.Ingest.Formats
		}
		if workers == 0 {
			workers = app.Config.Ingest.Workers
		}

		sources, err := discoverSources(matchesDir, formats)
		if err != nil {
			return errs.Wrap(err, "discover sources")
		}
		if len(sources) == 0 {
			logging.Warn(ctx, "no documents found",
				slog.String("matches_dir", matchesDir),
				slog.String("formats", strings.Join(formats, ",")),
			)
			return nil
		}

		// SIGINT/SIGTERM stops dispatching; in-flight documents finish.
		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		summary := svc.Run(runCtx, sources, workers)

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "ingested %d documents: %d succeeded, %d partial, %d failed\n",
			len(sources), summary.Succeeded, summary.Partial, summary.Failed); err != nil {
			return errs.Wrap(err, "write ingest output")
		}
		for _, failure := range summary.Failures {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "  failed %s: %s\n", failure.Source, failure.Reason); err != nil {
				return errs.Wrap(err, "write ingest output")
			}
		}
		return nil
	}),
}

// discoverSources walks matchesDir/<format>/*.json. Directory layout is a
// collaborator concern; missing format directories are skipped, not errors.
func discoverSources(matchesDir string, formats []string) ([]ingest.Source, error) {
	var sources []ingest.Source

	for _, format := range formats {
		dir := filepath.Join(matchesDir, format)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errs.Wrapf(err, "read directory %q", dir)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			sources = append(sources, ingest.FileSource{Path: filepath.Join(dir, entry.Name())})
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name() < sources[j].Name()
	})
	return sources, nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().String("matches", "", "Matches directory (defaults to ingest.matches_dir)")
	ingestCmd.Flags().StringSlice("format", nil, "Format subdirectories to scan (defaults to ingest.formats)")
	ingestCmd.Flags().Int("workers", 0, "Worker pool size (defaults to ingest.workers)")
}

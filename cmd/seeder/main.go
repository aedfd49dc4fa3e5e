package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/archive"
	"github.com/mauv0809/darts-league/internal/config"
	"github.com/mauv0809/darts-league/internal/database"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/seed"
	"github.com/spf13/cobra"
)

var (
	season string
	reset  bool
	output string
)

var rootCmd = &cobra.Command{
	Use:   "darts-seeder",
	Short: "Maintenance tasks for the darts league database",
	Long: `Seeds, resets and archives the darts league database configured
through DB_NAME, TURSO_PRIMARY_URL or DATABASE_URL.`,
	SilenceUsage: true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the roster, the season calendar and the first results",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store league.LeagueStore) error {
			start := time.Now()
			sum, err := seed.Run(ctx, store, season, reset)
			if err != nil {
				return err
			}
			log.Info("Seeded league", "players", sum.Players, "events", sum.Events, "stats", sum.Stats, "duration", time.Since(start))
			return nil
		})
	},
}

var resetStatsCmd = &cobra.Command{
	Use:   "reset-stats",
	Short: "Delete every recorded stat, keeping players and events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store league.LeagueStore) error {
			n, err := store.ResetStats(ctx)
			if err != nil {
				return err
			}
			log.Info("All stats deleted", "count", n)
			return nil
		})
	},
}

var setSeasonCmd = &cobra.Command{
	Use:   "set-season [season]",
	Short: "Move every event to the given season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store league.LeagueStore) error {
			n, err := store.SetSeasonForAll(ctx, args[0])
			if err != nil {
				return err
			}
			log.Info("Season updated", "season", args[0], "events", n)
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a msgpack snapshot of the whole league",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store league.LeagueStore) error {
			return writeSnapshot(ctx, store, output)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the whole league with a snapshot written by export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store league.LeagueStore) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			_, err = archive.Import(ctx, store, f)
			return err
		})
	},
}

// writeSnapshot exports the league to path, or to stdout for "-". An error
// closing the file fails the export.
func writeSnapshot(ctx context.Context, store league.LeagueStore, path string) (err error) {
	if path == "-" {
		_, err = archive.Export(ctx, store, os.Stdout)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	snap, err := archive.Export(ctx, store, f)
	if err != nil {
		return err
	}
	log.Info("League exported", "file", path, "players", len(snap.Players), "events", len(snap.Events), "stats", len(snap.Stats))
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&season, "season", "2024-2025", "Season the seeded events belong to")
	seedCmd.Flags().BoolVar(&reset, "reset", false, "Delete all players, events and stats before seeding")
	exportCmd.Flags().StringVarP(&output, "output", "o", "league.msgpack", "Snapshot file, or - for stdout")

	rootCmd.AddCommand(seedCmd, resetStatsCmd, setSeasonCmd, exportCmd, importCmd)
}

// withStore opens the configured database for the duration of fn.
func withStore(ctx context.Context, fn func(context.Context, league.LeagueStore) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	return fn(ctx, league.New(db))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("Seeder failed", "error", err)
		os.Exit(1)
	}
}

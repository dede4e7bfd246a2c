// Package cli contains the vecfixture commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/viant/vecfixture/engine"
	"github.com/viant/vecfixture/fixture"
	"github.com/viant/vecfixture/internal/config"
	"github.com/viant/vecfixture/internal/logging"
	"github.com/viant/vecfixture/internal/output"
	"github.com/viant/vecfixture/vector"
)

var version = "dev"

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// app carries the state shared by the commands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	seed    uint64

	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	gen     *fixture.Generator
}

// Execute runs the vecfixture root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the vecfixture command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "vecfixture",
		Short: "Random vector and city fixtures for a SQLite vector store",
		Long: `vecfixture generates random fixture data: uniform vectors in [0,1),
random city names, and SQLite point stores seeded with both.

Example usage:
  vecfixture vector 8                      # Print 8 uniform draws
  vecfixture city --count 3                # Print 3 random cities
  vecfixture seed --db points.db --count 10000
  vecfixture search --db points.db --city Tokyo --k 5
  vecfixture stats --db points.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .vecfixture.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().Uint64Var(&a.seed, "seed", 0, "seed the random source for reproducible output")

	root.AddCommand(
		newVectorCmd(a),
		newCityCmd(a),
		newSeedCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	if a.logger, err = logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format); err != nil {
		return err
	}
	a.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(cfg.Output.Colors))

	a.gen = fixture.Default()
	if cmd.Flags().Changed("seed") {
		a.gen = fixture.NewSeeded(a.seed)
	}
	engine.UseGenerator(a.gen)

	a.logger.Debug("configuration loaded",
		"store_path", cfg.Store.Path,
		"dimension", cfg.Seed.Dimension,
		"seeded", cmd.Flags().Changed("seed"),
	)
	return nil
}

// dbPath returns the --db flag value, falling back to the configured path.
func (a *app) dbPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p
	}
	return a.cfg.Store.Path
}

// openStore opens the SQLite store at path. The returned close function
// releases the database.
func (a *app) openStore(ctx context.Context, path string) (*vector.SQLiteStore, func() error, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, nil, err
	}
	store, err := vector.NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	a.logger.Debug("store opened", "path", path)
	return store, db.Close, nil
}

// intFlag returns the named flag when set on the command line and fallback
// otherwise.
func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}

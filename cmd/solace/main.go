// Command solace is a local CLI over the exercise catalog and a SQLite
// progress store.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Esteb4ncd/solace-server/pkg/bootstrap"
	"github.com/Esteb4ncd/solace-server/pkg/domain/exercise"
	"github.com/Esteb4ncd/solace-server/pkg/domain/intake"
	"github.com/Esteb4ncd/solace-server/pkg/infrastructure/database"
	infrapubsub "github.com/Esteb4ncd/solace-server/pkg/infrastructure/pubsub"
	"github.com/Esteb4ncd/solace-server/pkg/infrastructure/secrets"
	"github.com/Esteb4ncd/solace-server/pkg/wellness"
)

// cli holds global flags and the lazily opened service.
type cli struct {
	verbose     bool
	dbPath      string
	userID      string
	catalogPath string
	timezone    string

	logger *zap.Logger
	// now overrides the clock in tests.
	now func() time.Time

	db  *database.SQLiteAdapter
	svc *wellness.Service
}

func newRootCmdWith(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "solace",
		Short:         "Solace wellness CLI",
		Long:          "Recommend stretches for site work, track completions and streaks, and export sessions as FIT files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if c.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			c.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&c.dbPath, "db", envOr("SQLITE_PATH", bootstrap.DefaultSQLitePath), "SQLite progress database")
	root.PersistentFlags().StringVarP(&c.userID, "user", "u", "local", "User id to record progress for")
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", os.Getenv("CATALOG_PATH"), "Catalog file (JSON or YAML); defaults to the bundled catalog")
	root.PersistentFlags().StringVar(&c.timezone, "tz", os.Getenv("TIMEZONE"), "IANA timezone for calendar days")

	root.AddCommand(
		c.catalogCmd(),
		c.recommendCmd(),
		c.completeCmd(),
		c.streakCmd(),
		c.resetCmd(),
		c.intakeCmd(),
		c.exportFitCmd(),
		c.inspectFitCmd(),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *cli) catalog() (*exercise.Catalog, error) {
	if c.catalogPath == "" {
		return exercise.Default(), nil
	}
	return exercise.Load(c.catalogPath)
}

// slogger routes library logging to stderr; quiet unless --verbose.
func (c *cli) slogger() *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(bootstrap.NewHandler(os.Stderr, level))
}

// service opens the database and wires the wellness service on first use.
func (c *cli) service(ctx context.Context) (*wellness.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}

	catalog, err := c.catalog()
	if err != nil {
		return nil, err
	}

	cfg := &bootstrap.Config{Timezone: c.timezone}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.OpenSQLite(c.dbPath)
	if err != nil {
		return nil, err
	}
	c.db = db
	c.logger.Debug("Opened progress store", zap.String("path", c.dbPath), zap.Int("exercises", catalog.Len()))

	slogger := c.slogger()
	c.svc = &wellness.Service{
		DB:       db,
		Pub:      &infrapubsub.LogPublisher{Logger: slogger},
		Catalog:  catalog,
		Coach:    intake.NewCoach(catalog, c.responder(ctx), slogger),
		Location: loc,
		Logger:   slogger,
		Now:      c.now,
	}
	return c.svc, nil
}

// responder enables the model-backed coach when COACH_API_KEY_SECRET is set.
func (c *cli) responder(ctx context.Context) intake.Responder {
	cfg := bootstrap.LoadConfig()
	if cfg.CoachAPIKeySecret == "" {
		return nil
	}
	return bootstrap.NewResponder(ctx, cfg, &secrets.SecretsAdapter{Logger: c.slogger()}, c.slogger())
}

func (c *cli) close() {
	if c.db != nil {
		if err := c.db.Close(); err != nil && c.logger != nil {
			c.logger.Warn("Failed to close database", zap.Error(err))
		}
		c.db = nil
		c.svc = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

// execute runs root and releases the database and logger whether or not
// the command succeeded.
func (c *cli) execute(ctx context.Context, root *cobra.Command) error {
	defer c.close()
	return root.ExecuteContext(ctx)
}

func main() {
	c := &cli{}
	if err := c.execute(context.Background(), newRootCmdWith(c)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

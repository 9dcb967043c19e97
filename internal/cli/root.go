// Package cli wires the courtside commands: serve, report and probe.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/courtside/internal/adapters/database"
	"github.com/okian/courtside/internal/adapters/repository"
	service "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// state is shared by the subcommands of one invocation.
type state struct {
	cfgFile string
	cfg     *config.Config
	log     logger.Logger
}

// NewRootCmd builds the courtside command tree.
func NewRootCmd() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:   "courtside",
		Short: "Courtside serves a read-only tennis competitor dashboard",
		Long: `Courtside reads competitor rankings from PostgreSQL or SQLite and presents
summary statistics, filters, country aggregates and leaderboards.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (COURTSIDE_*, nested with a double underscore)
  3. Config file (--config or COURTSIDE_CONFIG)
  4. Built-in defaults

Examples:
  COURTSIDE_DATABASE__HOST      PostgreSQL host
  COURTSIDE_DATABASE__PASSWORD  PostgreSQL password
  COURTSIDE_DATABASE__DRIVER    postgres or sqlite
  COURTSIDE_DATABASE__PATH      SQLite database file`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&st.cfgFile, "config", "", "YAML config file (overrides "+config.EnvConfigFile+")")

	root.AddCommand(newServeCmd(st), newReportCmd(st), newProbeCmd(st))
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func (st *state) load(cmd *cobra.Command) error {
	if st.cfgFile != "" {
		if err := os.Setenv(config.EnvConfigFile, st.cfgFile); err != nil {
			return fmt.Errorf("set %s: %w", config.EnvConfigFile, err)
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	st.cfg = cfg
	st.log = log
	return nil
}

// newService builds the provider, store and service from the loaded config.
func (st *state) newService() (*service.Service, error) {
	provider, err := database.New(st.cfg.Database, database.WithLogger(st.log.Named("database")))
	if err != nil {
		return nil, err
	}
	store := repository.NewSQLStore(provider, repository.WithLogger(st.log.Named("repository")))
	return service.New(store,
		service.WithLogger(st.log.Named("service")),
		service.WithLeaderboardSize(st.cfg.LeaderboardSize),
		service.WithQueryTimeout(st.cfg.Database.QueryTimeout()),
	), nil
}

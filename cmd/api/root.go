package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/persistence"
	"github.com/spec-kit/employee-service/internal/repository"
)

var errNoDatabase = errors.New("POSTGRES_DSN is required for this command")

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	serve := newServeCmd(opts)

	root := &cobra.Command{
		Use:           "employee-service",
		Short:         "Employee and department management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Serve when no subcommand is given.
		RunE: serve.RunE,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newAccountsCmd(opts))
	root.AddCommand(newDepartmentsCmd(opts))
	return root
}

// runtime holds what every command needs: configuration, a logger and the
// selected storage backend.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
	repos  repository.Set
}

func bootstrap(ctx context.Context, opts *rootOptions) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Logger.Level = opts.logLevel
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	repos := repository.NewMemoryStore().Set()
	if pg.Enabled() {
		repos = repository.NewPostgresSet(pg.PoolHandle())
	}
	return &runtime{cfg: cfg, logger: logger, pg: pg, repos: repos}, nil
}

// requireDatabase rejects commands whose effect would vanish with an
// in-memory store.
func (r *runtime) requireDatabase() error {
	if !r.pg.Enabled() {
		return errNoDatabase
	}
	return nil
}

func (r *runtime) Close() {
	r.pg.Close()
	_ = r.logger.Sync()
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/employee-service/internal/api/http"
	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/persistence"
	"github.com/spec-kit/employee-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, logger := rt.cfg, rt.logger

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var revocations auth.RevocationList = auth.NewMemoryRevocationList(nil)
	if redis.Enabled() {
		revocations = auth.NewRedisRevocationList(redis.Client, cfg.Redis.KeyPrefix)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL())
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: rt.repos.Accounts,
		Tokens:      tokens,
		Revocations: revocations,
	}, service.RequireStaff)
	accountService := service.NewAccountService(*cfg, rt.repos.Accounts)

	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		created, err := accountService.EnsureStaff(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("bootstrapped admin account", zap.String("username", cfg.Auth.AdminUsername))
		}
	} else if !rt.pg.Enabled() {
		logger.Warn("in-memory store without AUTH_ADMIN_USERNAME/AUTH_ADMIN_PASSWORD; nobody can log in")
	}

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(*cfg, logger, metrics)
	if err := httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, rt.pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Departments:    handlers.NewDepartmentsHandler(service.NewDepartmentService(rt.repos.Departments)),
		Employees:      handlers.NewEmployeesHandler(service.NewEmployeeService(rt.repos.Employees)),
		Metrics:        metrics.Handler(),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, rt.repos.Accounts, cfg.Auth.RecheckStaff),
	}); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Bool("postgres", rt.pg.Enabled()), zap.Bool("redis", redis.Enabled()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	}
	return app.ShutdownWithTimeout(shutdownTimeout)
}

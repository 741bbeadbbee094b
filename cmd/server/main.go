package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"competency-hub/internal/app"
	"competency-hub/internal/config"
	"competency-hub/internal/database"
	"competency-hub/internal/database/migration"
	dbpostgres "competency-hub/internal/database/postgres"
	"competency-hub/internal/database/seeder"
	"competency-hub/migrations"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "competency-hub",
		Short:         "Employee competencies, project staffing and ratings",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	serve := newServeCmd()
	root.AddCommand(serve, newMigrateCmd(), newSeedCmd())
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, newLogger(cfg.App), nil
}

func newLogger(cfg config.AppConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(cfg.Environment, "development") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Str("app", cfg.AppName).Logger()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return fmt.Errorf("invalid HTTP port: %w", err)
	}

	bootstrap, cleanup, err := app.Bootstrap(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to bootstrap app: %w", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error().Err(err).Msg("cleanup error")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go bootstrap.Container.Hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return withDB(cmd.Context(), cfg, logger, func(ctx context.Context, db database.DB) error {
				r := migration.Runner{Source: migrationsSource(cfg), Logger: logger}
				if !status {
					return r.Run(ctx, db.SQLDB())
				}
				pending, err := r.Pending(ctx, db.SQLDB())
				if err != nil {
					return err
				}
				for _, m := range pending {
					fmt.Fprintf(cmd.OutOrStdout(), "pending V%d %s\n", m.Version, m.Name)
				}
				if len(pending) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list pending migrations without applying them")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the HR account and sample skill types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return withDB(cmd.Context(), cfg, logger, func(ctx context.Context, db database.DB) error {
				r := seeder.Runner{Seeders: seeder.Defaults(logger), Only: only, Logger: logger}
				return r.Run(ctx, db)
			})
		},
	}
	cmd.Flags().StringSliceVar(&only, "only", nil,
		"run only these seeders ("+strings.Join(seeder.Names(seeder.Defaults(zerolog.Nop())), ", ")+")")
	return cmd
}

func withDB(ctx context.Context, cfg config.Config, logger zerolog.Logger, fn func(context.Context, database.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("close database")
		}
	}()

	return fn(ctx, db)
}

func migrationsSource(cfg config.Config) fs.FS {
	if dir := strings.TrimSpace(cfg.Migrations); dir != "" {
		return os.DirFS(dir)
	}
	return migrations.FS
}

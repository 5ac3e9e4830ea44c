package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mboer/treasurehunt/internal/factory"
	"github.com/mboer/treasurehunt/internal/session"
	"github.com/mboer/treasurehunt/internal/web"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the treasure hunt web server",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func (o *options) validate() error {
	if o.port < 1 || o.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", o.port)
	}
	if o.sessionStore == factory.SessionStoreRedis && o.redisURL == "" {
		return fmt.Errorf("--redis-url is required with --session-store=redis")
	}
	return nil
}

func (o *options) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

func (o *options) factoryConfig(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		CluesPath:        o.cluesPath,
		StorageType:      o.storageType,
		SQLitePath:       o.dbPath,
		SessionStoreType: o.sessionStore,
		AdminPassword:    o.adminPassword,
		Logger:           logger,
	}
	if o.sessionStore == factory.SessionStoreRedis {
		redisCfg := session.DefaultRedisConfig()
		redisCfg.URL = o.redisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

func runServe(ctx context.Context, opts *options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	logger := opts.logger()
	slog.SetDefault(logger)

	if opts.adminPassword == "" {
		logger.Warn("no admin password configured, admin access is disabled")
	}

	app, err := factory.New(opts.factoryConfig(logger))
	if err != nil {
		return fmt.Errorf("creating application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("closing application", slog.Any("error", err))
		}
	}()

	router, err := web.NewRouter(web.RouterConfig{
		Logger:             logger,
		Store:              app.Store,
		Sessions:           app.Sessions,
		Registry:           app.Registry,
		HuntController:     app.HuntController,
		LeaderboardService: app.LeaderboardService,
		AdminService:       app.AdminService,
		BaseURL:            opts.baseURL,
	})
	if err != nil {
		return fmt.Errorf("creating router: %w", err)
	}

	serverCfg := web.DefaultServerConfig()
	serverCfg.Host = opts.bind
	serverCfg.Port = opts.port
	server := web.NewServer(router, serverCfg, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			logger.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Int("clue_count", app.Chain.Len()),
		slog.String("first_tag", app.Chain.FirstTag()),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/uploads-apicheck/internal/config"
	"github.com/information-sharing-networks/uploads-apicheck/internal/database"
	"github.com/information-sharing-networks/uploads-apicheck/internal/logger"
	"github.com/information-sharing-networks/uploads-apicheck/internal/server"
	"github.com/information-sharing-networks/uploads-apicheck/internal/version"
)

//	@title			uploads-server
//	@description	uploads-server is a reference implementation of the uploads API verified by apicheck.
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	## Authentication
//	@description	`POST /authorize/` exchanges the configured login and password for a bearer token.
//	@description	The token is valid for TOKEN_LIFETIME and must be sent as `Authorization: Bearer <token>` to `/api/save_data/`.
//	@license.name	MIT

//	@servers.url			http://localhost:5000
//	@servers.description	Development server

//	@tag.name			Uploads
//	@tag.description	ping, authorize and save_data

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, readiness, version)

func main() {
	cmd := &cobra.Command{
		Use:   "uploads-server",
		Short: "Reference uploads API server",
		Long:  `uploads-server implements the ping, authorize and save_data API and stores the MD5 digest of each accepted payload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("DATABASE_DIALECT", string(database.DetectDialect(cfg.DatabasePath))),
		slog.Duration("TOKEN_LIFETIME", cfg.TokenLifetime),
		slog.Int("RATE_LIMIT_RPS", int(cfg.RateLimitRPS)),
		slog.Int64("MAX_REQUEST_BODY_BYTES", cfg.MaxRequestBodyBytes),
	)

	dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.DatabasePingTimeout)
	defer dbCancel()

	store, err := database.OpenStore(dbCtx, cfg.DatabasePath)
	if err != nil {
		appLogger.Error("Unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("database ready", slog.String("dialect", string(database.DetectDialect(cfg.DatabasePath))))

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(store, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to create server", slog.String("error", err.Error()))
		_ = store.Close()
		os.Exit(1)
	}

	defer srv.DatabaseShutdown()

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}

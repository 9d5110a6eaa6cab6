// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Balogunolalere/myoozik/internal/api/rest"
	"github.com/Balogunolalere/myoozik/internal/app/ingest"
	"github.com/Balogunolalere/myoozik/internal/infra/cache"
	"github.com/Balogunolalere/myoozik/internal/infra/config"
	"github.com/Balogunolalere/myoozik/internal/infra/logger"
	"github.com/Balogunolalere/myoozik/internal/infra/postgres"
	"github.com/Balogunolalere/myoozik/internal/infra/youtube"
)

var (
	app        = kingpin.New("myoozik-server", "myoozik playlist sharing server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	migrateCmd = app.Command("migrate", "Run schema migrations and exit")
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg, command == migrateCmd.FullCommand()); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config, migrateOnly bool) error {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	zlog.Info().Msg("Running schema migrations")
	if err := postgres.AutoMigrate(ctx, pool); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if migrateOnly {
		zlog.Info().Msg("Migrations complete")
		return nil
	}

	store := postgres.New(pool)

	metaCache, err := cache.NewFromConfig(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	zlog.Info().Msgf("Metadata cache: %s", cfg.Cache.Provider)

	ytClient, err := youtube.New(youtube.Config{
		APIKey:   cfg.YouTube.APIKey,
		BaseURL:  cfg.YouTube.BaseURL,
		Timeout:  time.Duration(cfg.YouTube.TimeoutSec) * time.Second,
		PageSize: cfg.YouTube.MaxPlaylist,
	})
	if err != nil {
		return fmt.Errorf("failed to create youtube client: %w", err)
	}

	ingestSvc := ingest.New(ytClient, store, metaCache)
	apiServer := rest.NewServer(store, ingestSvc)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(apiServer.Router(), &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

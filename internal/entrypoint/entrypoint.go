package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/langportal/internal/config"
	"github.com/mrlokans/langportal/internal/database"
	"github.com/mrlokans/langportal/internal/database/admin"
	"github.com/mrlokans/langportal/internal/database/dashboard"
	"github.com/mrlokans/langportal/internal/database/groups"
	"github.com/mrlokans/langportal/internal/database/study"
	"github.com/mrlokans/langportal/internal/database/words"
	http_controllers "github.com/mrlokans/langportal/internal/http"
	"github.com/mrlokans/langportal/internal/logger"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, log *logger.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT. SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}

	// In-flight requests have drained, so resources they use can go.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Lang Portal", "version", version, "database_driver", cfg.Database.Driver)
	gin.SetMode(cfg.HTTP.Mode)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if cfg.Seed.Dir != "" {
		result, err := db.Seed(cfg.Seed.Dir)
		if err != nil {
			log.Fatal("Failed to import seed data", "dir", cfg.Seed.Dir, "error", err)
		}
		log.Info("Seed data imported", "dir", cfg.Seed.Dir,
			"activities", result.Activities, "groups", result.Groups, "words", result.Words)
	}

	loc := cfg.Study.Location()

	routerCfg := http_controllers.RouterConfig{
		WordStore:      words.NewRepository(db.DB, cfg.API.SearchMaxLength),
		GroupStore:     groups.NewRepository(db.DB),
		StudyStore:     study.NewRepository(db.DB, database.SystemClock, loc),
		DashboardStore: dashboard.NewRepository(db.DB, database.SystemClock, loc),
		AdminStore:     admin.NewRepository(db.DB, cfg.Seed.Dir),
		Database:       db,
		ItemsPerPage:   cfg.API.ItemsPerPage,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         log,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", "error", err)
		}
	}

	Serve(router, cfg, log, onShutdown)
}

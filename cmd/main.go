package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "user_manager/docs"
	"user_manager/internal/config"
	"user_manager/internal/handlers"
	"user_manager/internal/logger"
	"user_manager/internal/repository"
	"user_manager/internal/repository/db"
	"user_manager/internal/server"
	"user_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	configDir       = "configs"
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.New(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()
	gin.SetMode(cfg.GinMode)

	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to open database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, log)
	apiHandler := handlers.NewHandler(services, log)

	seed(services, cfg.Seed.Count, log)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	log.Infow("database ready", "driver", cfg.DB.Driver)
	return conn, nil
}

// seed inserts generated users when seed.count is set. A failure is logged
// and the server still starts.
func seed(services *service.Service, n int, log *logger.Logger) {
	if n <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	written, err := services.Seeder.Seed(ctx, n)
	if err != nil {
		log.Errorw("seeding failed", "requested", n, "err", err)
		return
	}
	log.Infow("seeded users", "count", written)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM and drains in-flight requests.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach-crm/internal/api"
	"github.com/ignite/outreach-crm/internal/config"
	"github.com/ignite/outreach-crm/internal/instantly"
	"github.com/ignite/outreach-crm/internal/metrics"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
	"github.com/ignite/outreach-crm/internal/repository/postgres"
	"github.com/ignite/outreach-crm/internal/store"
	"github.com/ignite/outreach-crm/internal/webhook"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	storeClient := store.NewClient(cfg.Store)
	analyticsClient := instantly.NewClient(cfg.Instantly)
	engine := webhook.NewEngine(cfg.Webhook)

	// Delivery log is optional; without a database the server still
	// runs, it just doesn't persist run history.
	var recorder api.DeliveryRecorder
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("database unreachable, delivery log disabled", "error", err.Error())
		} else {
			recorder = postgres.NewDeliveryLogRepo(db)
			logger.Info("delivery log enabled")
		}
		cancel()
		defer db.Close()
	}

	// Snapshot cache is optional the same way.
	var cache *metrics.SnapshotCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = metrics.NewSnapshotCache(rdb, cfg.Dashboard.CacheTTL())
		logger.Info("dashboard snapshot cache enabled", "addr", cfg.Redis.Addr)
		defer rdb.Close()
	}

	dashboard := metrics.NewService(storeClient, analyticsClient, cache)
	handlers := api.NewHandlers(dashboard, storeClient, engine, recorder, analyticsClient)
	server := api.NewServer(cfg.Server, handlers)

	addr := fmt.Sprintf("%s:%d", host, port)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err.Error())
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err.Error())
	}
}

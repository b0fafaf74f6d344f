package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catering-platform/internal/config"
	"catering-platform/internal/database"
	"catering-platform/internal/logger"
	"catering-platform/internal/messaging"
	"catering-platform/internal/server"
	"catering-platform/internal/services/notification"
	"catering-platform/internal/store/backend"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (api-server, notification-subscriber, migrate)")
		port       = flag.Int("port", 0, "HTTP port (overrides server.port)")
		configFile = flag.String("config", "config.yaml", "Path to the configuration file")
		prefetch   = flag.Int("prefetch", 10, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.NewWithWriter(*mode, os.Stdout, logger.ParseLevel(cfg.Log.Level))
	requestID := logger.GenerateRequestID()

	loc, err := cfg.Location()
	if err != nil {
		log.Error("config_invalid", "Invalid timezone", requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":     *mode,
		"port":     cfg.Server.Port,
		"backend":  cfg.Storage.Backend,
		"timezone": loc.String(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "api-server":
		err = runAPIServer(ctx, cfg, loc, log)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	case "migrate":
		err = runMigrations(ctx, cfg, log)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}
	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func runAPIServer(ctx context.Context, cfg *config.Config, loc *time.Location, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	st, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}
	defer st.Close()

	var publisher messaging.EventPublisher = messaging.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		conn, err := messaging.New(ctx, cfg.RabbitMQURL(), log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

		eventPublisher := messaging.NewPublisher(conn, log)
		defer eventPublisher.Close()
		publisher = eventPublisher
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.SetupRoutes(st, publisher, cfg, loc, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("service_started", fmt.Sprintf("API server started on port %d", cfg.Server.Port), requestID, map[string]interface{}{
			"port":            cfg.Server.Port,
			"allowed_origins": cfg.Server.AllowedOrigins,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(ctx, cfg.RabbitMQURL(), log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notification-subscriber", prefetch)
	return notification.NewSubscriber(consumer, log).Start(ctx)
}

// runMigrations applies the PostgreSQL migrations and exits
func runMigrations(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := database.New(ctx, cfg.DatabaseURL(), log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migration_applied", "Migrations applied", logger.GenerateRequestID(), nil)
	return nil
}

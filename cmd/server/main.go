package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/events"
	"github.com/jafarshop/storefront/internal/logging"
	"github.com/jafarshop/storefront/internal/notify"
	"github.com/jafarshop/storefront/internal/repository/breaker"
	"github.com/jafarshop/storefront/internal/repository/cache"
	"github.com/jafarshop/storefront/internal/repository/mongodb"
	"github.com/jafarshop/storefront/internal/repository/postgres"
	"github.com/jafarshop/storefront/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Identity store
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return err
	}
	repos := postgres.NewRepositories(db, logger)

	// Order store
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	mongoDB, err := mongodb.Connect(connectCtx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	orders := mongodb.NewOrderRepository(mongoDB.Collection(cfg.Mongo.OrderCollection), logger)
	if err := orders.CreateIndexes(connectCtx); err != nil {
		logger.Warn("Failed to create order indexes", zap.Error(err))
	}
	repos.Order = breaker.NewOrderRepository(orders, breaker.Settings{
		MaxFailures: cfg.OrderStore.MaxFailures,
		OpenTimeout: cfg.OrderStore.OpenTimeout,
	}, logger)

	// Cart snapshots
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(connectCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	repos.CartSnapshot = cache.NewRedisSnapshots(redisClient, cfg.Redis.SnapshotTTL)

	// Order events
	var publisher events.Publisher = events.NewNopPublisher()
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, logger)
		logger.Info("Publishing order events",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.OrderTopic),
		)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}()

	sessions := service.NewSessionService(repos, publisher, notify.NewLogNotifier(logger), cfg.Redis.CartKey, logger)
	router := api.NewRouter(cfg, repos, sessions, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	err = srv.Shutdown(shutdownCtx)

	// Let in-flight order events finish before the publisher closes
	sessions.WaitForEvents()
	return err
}

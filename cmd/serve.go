package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/educloud-dashboard/internal/cache"
	"github.com/SAP-F-2025/educloud-dashboard/internal/events"
	"github.com/SAP-F-2025/educloud-dashboard/internal/handlers"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories/casdoor"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories/postgres"
	"github.com/SAP-F-2025/educloud-dashboard/internal/services"
	"github.com/SAP-F-2025/educloud-dashboard/internal/session"
	"github.com/SAP-F-2025/educloud-dashboard/internal/utils"
	"github.com/SAP-F-2025/educloud-dashboard/internal/validator"
	"github.com/SAP-F-2025/educloud-dashboard/migrations"
	"github.com/SAP-F-2025/educloud-dashboard/pkg"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Up(context.Background(), sqlDB); err != nil {
			return err
		}
		logger.Info("Migrations applied")
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without cache", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	repo := repoManager.GetRepository()

	publisher, err := newPublisher(logger)
	if err != nil {
		return err
	}

	// Initialize services
	serviceManager := services.NewDefaultServiceManager(repo, cache.NewCacheManager(redisClient), publisher, slogLogger)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	var store session.Store = session.NewMemoryStore()
	if redisClient != nil {
		store = session.NewRedisStore(redisClient)
	}
	sessions := session.NewManager(store, repo.User(), session.Config{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
	}, slogLogger)

	var identity *casdoor.Identity
	if cfg.Casdoor.Enabled() {
		identity = casdoor.NewIdentity(cfg.Casdoor)
		logger.Info("Casdoor bearer tokens enabled", "endpoint", cfg.Casdoor.Endpoint)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, validator.New(), logger, handlers.HandlerConfig{
		SessionManager: sessions,
		Identity:       identity,
		UserRepo:       repo.User(),
		SecureCookies:  cfg.IsProduction(),
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, handlers.MiddlewareConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		HSTS:           cfg.IsProduction(),
	})
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}
	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to close repositories", "error", err)
	}

	logger.Info("Server exited")
	return nil
}

// newPublisher picks Kafka when brokers are configured. Otherwise events stay
// in process and are written to the log.
func newPublisher(logger utils.Logger) (events.EventPublisher, error) {
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopic, logger.Slog())
		if err != nil {
			return nil, err
		}
		logger.Info("Publishing events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.EventTopic)
		return pub, nil
	}

	pub, pubSub := events.NewGoChannelPublisher(cfg.EventTopic, logger.Slog())
	if err := logEvents(pubSub, cfg.EventTopic, logger.Slog()); err != nil {
		pub.Close()
		return nil, err
	}
	return pub, nil
}

func logEvents(pubSub *gochannel.GoChannel, topic string, logger *slog.Logger) error {
	messages, err := pubSub.Subscribe(context.Background(), topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			event, err := events.Decode(msg)
			if err != nil {
				logger.Warn("Dropping undecodable event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			logger.Info("Event", "type", event.Type, "tenant_id", event.TenantID, "event_id", event.ID)
			msg.Ack()
		}
	}()
	return nil
}

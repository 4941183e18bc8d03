package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/educloud-dashboard/internal/cache"
	"github.com/SAP-F-2025/educloud-dashboard/internal/events"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Reports can be switched off on replicas that should not build workbooks
	EnableReports bool

	DefaultTimeout time.Duration
}

func DefaultServiceManagerConfig() ServiceManagerConfig {
	return ServiceManagerConfig{
		EnableReports:  true,
		DefaultTimeout: 30 * time.Second,
	}
}

// Validate checks the service manager configuration
func (c ServiceManagerConfig) Validate() error {
	if c.DefaultTimeout <= 0 {
		return fmt.Errorf("configuration validation failed: default timeout must be positive")
	}
	return nil
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	config    ServiceManagerConfig

	// Service instances
	subscriptionService SubscriptionService
	dashboardService    DashboardService
	reportService       ReportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, cm *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		cache:     cm,
		publisher: publisher,
		logger:    logger,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(repo repositories.Repository, cm *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger) ServiceManager {
	return NewServiceManager(repo, cm, publisher, logger, DefaultServiceManagerConfig())
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.config.Validate(); err != nil {
		return err
	}
	if sm.cache == nil {
		sm.cache = cache.NewCacheManager(nil)
	}

	sm.subscriptionService = NewSubscriptionService(sm.repo, sm.cache, sm.publisher, sm.logger)
	sm.logger.Info("Subscription service initialized")

	sm.dashboardService = NewDashboardService(sm.repo, sm.cache, sm.logger)
	sm.logger.Info("Dashboard service initialized")

	if sm.config.EnableReports {
		sm.reportService = NewReportService(sm.repo, sm.logger)
		sm.logger.Info("Report service initialized")
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Subscription() SubscriptionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.subscriptionService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.dashboardService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.reportService != nil {
		return sm.reportService
	}

	panic("report service not enabled")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	ctx, cancel := context.WithTimeout(ctx, sm.config.DefaultTimeout)
	defer cancel()

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

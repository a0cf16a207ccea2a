package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hermes/internal/activity"
	"hermes/internal/adapters/ai"
	"hermes/internal/adapters/clickhouse"
	"hermes/internal/adapters/config"
	"hermes/internal/adapters/kafka"
	"hermes/internal/adapters/marketplace"
	"hermes/internal/adapters/postgres"
	"hermes/internal/adapters/redis"
	"hermes/internal/archive"
	"hermes/internal/dispatch"
	"hermes/internal/events"
	"hermes/internal/metrics"
	pgrepo "hermes/internal/repository/postgres"
	"hermes/internal/research"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Container owns every component of the service and wires them in dependency
// order. Initialization is fail-fast: any phase that cannot complete panics
// before the dispatcher starts delivering events.
type Container struct {
	Cfg *config.Config
	Log *logger.Logger

	ErrorTracker errors.Tracker

	// Infrastructure clients. ClickHouse, Redis and Kafka are optional and
	// stay nil when not configured.
	PG    *postgres.Client
	CH    *clickhouse.Client
	Redis *redis.Client
	Kafka *kafka.Producer

	// Repositories
	EventLog  *pgrepo.EventLogRepository
	Offsets   *pgrepo.ConsumerOffsetRepository
	Learnings *pgrepo.LearningRepository

	// Application
	Publisher  *events.Publisher
	Pipeline   *research.Pipeline
	Registry   *dispatch.Registry
	Dispatcher *dispatch.Dispatcher

	// Background
	ArchiveWorker *archive.Worker
	metricsServer *http.Server

	WG      *sync.WaitGroup
	Context context.Context
	Cancel  context.CancelFunc
}

// NewContainer creates an empty dependency container.
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		WG:      &sync.WaitGroup{},
		Context: ctx,
		Cancel:  cancel,
	}
}

// MustInit initializes all components in the correct order.
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitPipeline()
	c.MustInitDispatch()
	c.MustInitBackground()
}

// Start launches the dispatcher, the background workers and the metrics server.
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	if err := c.Dispatcher.Start(c.Context); err != nil {
		return errors.Wrap(err, "failed to start dispatcher")
	}

	if c.ArchiveWorker != nil {
		c.ArchiveWorker.Start(c.Context)
		c.Log.Info("Archive compaction started")
	}

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.Log.Errorf("Metrics server failed: %v", err)
		}
	}()

	c.Log.Info("All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in reverse dependency order: stop
// delivering first, then background workers, then close connections.
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")
	c.Cancel()

	if err := c.Dispatcher.Stop(); err != nil {
		c.Log.Errorf("Dispatcher shutdown: %v", err)
	}

	if c.ArchiveWorker != nil {
		c.ArchiveWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.metricsServer.Shutdown(shutdownCtx); err != nil {
		c.Log.Errorf("Metrics server shutdown: %v", err)
	}

	c.WG.Wait()

	if c.Kafka != nil {
		if err := c.Kafka.Close(); err != nil {
			c.Log.Errorf("Kafka producer close: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Errorf("Redis close: %v", err)
		}
	}
	if c.CH != nil {
		if err := c.CH.Close(); err != nil {
			c.Log.Errorf("ClickHouse close: %v", err)
		}
	}
	if err := c.PG.Close(); err != nil {
		c.Log.Errorf("Postgres close: %v", err)
	}

	if err := c.ErrorTracker.Flush(shutdownCtx); err != nil {
		c.Log.Errorf("Error tracker flush: %v", err)
	}

	c.Log.Info("Shutdown complete")
}

// buildMetricsServer exposes /metrics and a liveness probe.
func (c *Container) buildMetricsServer() *http.Server {
	prometheus.MustRegister(metrics.NewLogCollector(c.Log, c.PG.DB()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := c.PG.Health(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", c.Cfg.App.MetricsPort),
		Handler: mux,
	}
}

// aiLimiter selects the AI rate limiter implementation: distributed when
// Redis is configured, local token bucket otherwise.
func (c *Container) aiLimiter() ai.RateLimiter {
	if c.Redis != nil {
		return ai.NewRedisLimiter(c.Redis.Client(), "ai", c.Cfg.AI.ReqPerMinute)
	}
	return ai.NewLocalLimiter(c.Cfg.AI.ReqPerMinute)
}

// signalSource builds the marketplace capability.
func (c *Container) signalSource() research.SignalSource {
	return marketplace.NewMockSource(c.Cfg.SignalSource)
}

// activityLogger builds the agent activity sink.
func (c *Container) activityLogger() research.ActivityLogger {
	return activity.NewLogger()
}

package bootstrap

import (
	"strings"

	"github.com/shopspring/decimal"

	"hermes/internal/adapters/ai"
	"hermes/internal/adapters/clickhouse"
	"hermes/internal/adapters/config"
	"hermes/internal/adapters/errors/noop"
	"hermes/internal/adapters/errors/sentry"
	"hermes/internal/adapters/kafka"
	"hermes/internal/adapters/postgres"
	"hermes/internal/adapters/redis"
	"hermes/internal/archive"
	"hermes/internal/dispatch"
	"hermes/internal/domain/event"
	domainresearch "hermes/internal/domain/research"
	"hermes/internal/events"
	"hermes/internal/relay"
	pgrepo "hermes/internal/repository/postgres"
	"hermes/internal/research"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// HandlerResearchPipeline is the registry name the default binding points at.
const HandlerResearchPipeline = "pipeline.research"

// MustInitConfig loads configuration and the logger.
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Cfg = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	c.Log = logger.Get()
	c.Log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)
}

// MustInitInfrastructure connects to Postgres and the optional backends.
func (c *Container) MustInitInfrastructure() {
	c.Log.Info("Initializing infrastructure...")

	pg, err := postgres.NewClient(c.Cfg.Postgres)
	if err != nil {
		c.Log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	c.PG = pg

	if c.Cfg.ClickHouse.Enabled() {
		ch, err := clickhouse.NewClient(c.Cfg.ClickHouse)
		if err != nil {
			c.Log.Fatalf("Failed to connect to ClickHouse: %v", err)
		}
		c.CH = ch
	}

	if c.Cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(c.Cfg.Redis)
		if err != nil {
			c.Log.Fatalf("Failed to connect to Redis: %v", err)
		}
		c.Redis = rdb
	}

	if c.Cfg.Kafka.Enabled() {
		c.Kafka = kafka.NewProducer(c.Cfg.Kafka.Brokers)
	}

	c.Log.Infow("Infrastructure initialized",
		"clickhouse", c.CH != nil,
		"redis", c.Redis != nil,
		"kafka", c.Kafka != nil,
	)
}

// MustInitRepositories wires the Postgres-backed stores.
func (c *Container) MustInitRepositories() {
	db := c.PG.DB()
	c.EventLog = pgrepo.NewEventLogRepository(db)
	c.Offsets = pgrepo.NewConsumerOffsetRepository(db)
	c.Learnings = pgrepo.NewLearningRepository(db)
}

// MustInitPipeline builds the research pipeline and its capabilities.
func (c *Container) MustInitPipeline() {
	c.Publisher = events.NewPublisher(c.EventLog, c.Log)

	profile, err := provideStrategyProfile(c.Cfg.Strategy)
	if err != nil {
		c.Log.Fatalf("Invalid strategy profile: %v", err)
	}

	c.Pipeline = research.NewPipeline(research.Config{
		Profile:   profile,
		Signals:   c.signalSource(),
		LLM:       ai.NewClient(c.Cfg.AI, c.aiLimiter()),
		Activity:  c.activityLogger(),
		Learnings: c.Learnings,
		Publisher: c.Publisher,
	})
}

// MustInitDispatch parses bindings, resolves handlers and subscribes the
// dispatcher. The Kafka relay, when enabled, rides the same dispatcher as an
// ordinary consumer.
func (c *Container) MustInitDispatch() {
	c.Registry = dispatch.NewRegistry()
	c.Registry.RegisterHandler(HandlerResearchPipeline, c.Pipeline.Handle)

	bindings, err := dispatch.ParseBindings(c.Cfg.Dispatcher.Bindings)
	if err != nil {
		c.Log.Fatalf("Invalid dispatcher bindings: %v", err)
	}

	c.Dispatcher = dispatch.New(c.EventLog, c.Offsets, dispatch.Config{
		PollInterval: c.Cfg.Dispatcher.PollInterval,
		BatchSize:    c.Cfg.Dispatcher.BatchSize,
	})

	for _, sub := range c.Registry.Resolve(bindings) {
		if err := c.Dispatcher.Subscribe(sub); err != nil {
			c.Log.Fatalf("Failed to subscribe %s/%s: %v", sub.ConsumerID, sub.Topic, err)
		}
	}

	if c.Kafka != nil {
		r := relay.New(c.Kafka)
		for _, sub := range r.Subscriptions(event.OutcomeTopics) {
			if err := c.Dispatcher.Subscribe(sub); err != nil {
				c.Log.Fatalf("Failed to subscribe relay to %s: %v", sub.Topic, err)
			}
		}
		c.Log.Infow("Kafka relay wired", "topics", event.OutcomeTopics)
	}
}

// MustInitBackground builds the archive worker and the metrics server.
func (c *Container) MustInitBackground() {
	if c.CH != nil {
		var locker archive.Locker
		if c.Redis != nil {
			locker = c.Redis
		}
		c.ArchiveWorker = archive.NewWorker(c.EventLog, c.CH, locker, c.Cfg.Archive)
	}

	c.metricsServer = c.buildMetricsServer()
}

// provideErrorTracker initializes error tracking (Sentry or no-op)
func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// provideStrategyProfile converts flat config into the domain profile.
func provideStrategyProfile(cfg config.StrategyConfig) (domainresearch.StrategyProfile, error) {
	margin, err := decimal.NewFromString(strings.TrimSpace(cfg.TargetMarginPercent))
	if err != nil {
		return domainresearch.StrategyProfile{}, err
	}

	return domainresearch.StrategyProfile{
		AllowedCategories:    cfg.AllowedCategories,
		ProhibitedCategories: cfg.ProhibitedCategories,
		RiskTolerance:        cfg.RiskTolerance,
		TargetMargin:         margin,
	}, nil
}

package main

import (
	"context"
	"flag"

	"github.com/google/uuid"

	"hermes/internal/adapters/config"
	"hermes/internal/adapters/postgres"
	"hermes/internal/domain/learning"
	"hermes/internal/domain/research"
	"hermes/internal/events"
	pgrepo "hermes/internal/repository/postgres"
	"hermes/pkg/logger"
)

// Development seeder: loads sample learnings for a category and optionally
// enqueues a research request so a locally running service has work to do.
func main() {
	category := flag.String("category", "Fitness", "Category to seed learnings for")
	request := flag.Bool("request", false, "Also publish a research.requested event")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()

	pg, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()

	ctx := context.Background()
	learnings := pgrepo.NewLearningRepository(pg.DB())

	seeds := []learning.Learning{
		{Category: *category, Insight: "Bundles outperformed single items in past runs", Sentiment: "positive", Relevance: 0.8},
		{Category: *category, Insight: "Oversized items showed high return shipping costs", Sentiment: "negative", Relevance: 0.6},
		{Category: *category, Insight: "Seasonal demand spikes in Q4", Sentiment: "neutral", Relevance: 0.5},
	}
	for i := range seeds {
		if err := learnings.Record(ctx, &seeds[i]); err != nil {
			log.Fatalf("Failed to seed learning: %v", err)
		}
	}
	log.Infow("Seeded learnings", "category", *category, "count", len(seeds))

	adjustments := []learning.Adjustment{
		{Category: *category, Factor: "bundle_offer", Type: learning.AdjustmentBoost, Value: 0.05},
		{Category: *category, Factor: "oversized_item", Type: learning.AdjustmentPenalty, Value: 0.1},
	}
	for _, adj := range adjustments {
		_, err := pg.DB().ExecContext(ctx,
			`INSERT INTO learning_adjustments (category, factor, type, value, created_at)
			 VALUES ($1, $2, $3, $4, NOW())`,
			adj.Category, adj.Factor, adj.Type, adj.Value,
		)
		if err != nil {
			log.Fatalf("Failed to seed adjustment: %v", err)
		}
	}
	log.Infow("Seeded adjustments", "category", *category, "count", len(adjustments))

	if *request {
		publisher := events.NewPublisher(pgrepo.NewEventLogRepository(pg.DB()), log)
		requestID := "req-" + uuid.NewString()

		ev, err := publisher.PublishResearchRequested(ctx, requestID, research.Criteria{
			Category: *category,
		})
		if err != nil {
			log.Fatalf("Failed to publish research request: %v", err)
		}
		log.Infow("Published research request", "request_id", requestID, "event_id", ev.ID)
	}
}

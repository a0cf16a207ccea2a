package research

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"hermes/internal/domain/learning"
	"hermes/internal/domain/research"
	"hermes/internal/events"
	"hermes/internal/repository/memory"
	"hermes/pkg/logger"
)

// stubLLM returns canned responses keyed off the system prompt.
type stubLLM struct {
	briefJSON    string
	keywordsJSON string
	err          error
}

func (s *stubLLM) Complete(ctx context.Context, systemPrompt, input string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(systemPrompt, "keyword") {
		return s.keywordsJSON, nil
	}
	return s.briefJSON, nil
}

// stubSource serves fixed marketplace data.
type stubSource struct {
	products    map[string][]research.RawSignalItem
	competitors map[string]research.CompetitorData
	findErr     error
}

func (s *stubSource) FindProducts(ctx context.Context, keyword string) ([]research.RawSignalItem, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.products[keyword], nil
}

func (s *stubSource) AnalyzeCompetitors(ctx context.Context, name string) (research.CompetitorData, error) {
	if data, ok := s.competitors[name]; ok {
		return data, nil
	}
	return research.CompetitorData{Name: name, Rating: 4.0, ReviewCount: 100, PriceLow: 15, PriceHigh: 30}, nil
}

type nopActivity struct{}

func (nopActivity) Log(agent, message, level string, data map[string]interface{}) {}

func testProfile() research.StrategyProfile {
	return research.StrategyProfile{
		AllowedCategories:    []string{"Fitness", "Home", "Pet", "Gadgets"},
		ProhibitedCategories: []string{"weapons", "medical", "supplements", "tobacco"},
		RiskTolerance:        "moderate",
		TargetMargin:         decimal.NewFromInt(35),
	}
}

// testEnv bundles a pipeline with its in-memory collaborators.
type testEnv struct {
	pipeline *Pipeline
	log      *memory.EventLog
	store    *memory.LearningStore
	llm      *stubLLM
	source   *stubSource
}

func newTestEnv(estimator Estimator, adjustments ...learning.Adjustment) *testEnv {
	eventLog := memory.NewEventLog()
	store := memory.NewLearningStore(adjustments...)

	llm := &stubLLM{
		briefJSON:    `{"seasonal_window":"Q1 fitness resolutions","target_personas":["home gym beginner"],"emerging_definition":"rising search volume","execution_speed":"normal"}`,
		keywordsJSON: `["yoga mat","exercise mat","fitness mat"]`,
	}

	source := &stubSource{
		products: map[string][]research.RawSignalItem{
			"yoga mat": {
				{Name: "Yoga Mat Pro", Category: "Fitness", Price: 29.99, Rating: 4.6, Reviews: 2400},
				{Name: "Yoga Mat Travel", Category: "Fitness", Price: 19.99, Rating: 4.2, Reviews: 800},
			},
			"exercise mat": {
				{Name: "Exercise Mat Thick", Category: "Fitness", Price: 34.99, Rating: 4.4, Reviews: 1500},
			},
			"fitness mat": {
				{Name: "Fitness Mat Foldable", Category: "Fitness", Price: 44.99, Rating: 4.1, Reviews: 300},
			},
		},
		competitors: map[string]research.CompetitorData{
			"Yoga Mat Pro": {Name: "Yoga Mat Pro", EstimatedSales: 9000, Rating: 4.3, ReviewCount: 2400, PriceLow: 24.99, PriceHigh: 34.99},
		},
	}

	pipeline := NewPipeline(Config{
		Profile:   testProfile(),
		Signals:   source,
		LLM:       llm,
		Activity:  nopActivity{},
		Learnings: store,
		Publisher: events.NewPublisher(eventLog, logger.Get()),
		Estimator: estimator,
	})

	return &testEnv{
		pipeline: pipeline,
		log:      eventLog,
		store:    store,
		llm:      llm,
		source:   source,
	}
}

func steadyEstimator() Estimator {
	return FixedEstimator{
		Demand:      0.05,
		Competition: -0.02,
		Phase:       research.PhaseGrowing,
		WindowDays:  30,
	}
}

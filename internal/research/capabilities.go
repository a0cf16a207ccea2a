package research

import (
	"context"

	"hermes/internal/domain/research"
)

// SignalSource is the external marketplace/trend capability the collection
// stage churns for raw evidence.
type SignalSource interface {
	// FindProducts returns items discovered for a search keyword.
	FindProducts(ctx context.Context, keyword string) ([]research.RawSignalItem, error)

	// AnalyzeCompetitors looks up competitor data for a product name.
	AnalyzeCompetitors(ctx context.Context, name string) (research.CompetitorData, error)
}

// LanguageModel is the text-generation capability used to normalize requests
// and derive keyword variants. Structured stages expect a JSON document back
// and must tolerate malformed output.
type LanguageModel interface {
	Complete(ctx context.Context, systemPrompt, userInput string) (string, error)
}

// ActivityLogger is a fire-and-forget sink for agent activity. Implementations
// must never fail a pipeline stage; errors are swallowed downstream.
type ActivityLogger interface {
	Log(agent, message, level string, data map[string]interface{})
}

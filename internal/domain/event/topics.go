package event

// Topic definitions for the durable event log
const (
	// Research pipeline
	TopicResearchRequested   = "research.requested"
	TopicBriefCreated        = "research.brief_created"
	TopicLearningsAttached   = "research.learnings_attached"
	TopicSignalsCollected    = "research.signals_collected"
	TopicThemesGenerated     = "research.themes_generated"
	TopicThemesGated         = "research.themes_gated"
	TopicShortlistRanked     = "research.shortlist_ranked"
	TopicTimeFiltered        = "research.time_filtered"
	TopicCandidatesValidated = "research.candidates_validated"
	TopicConceptsCreated     = "research.concepts_created"
	TopicBriefsPublished     = "research.briefs_published"
	TopicResearchAborted     = "research.aborted"

	// Handoff to downstream agents
	TopicSupplierFeasibility = "supplier.feasibility_requested"
	TopicMarketingAngle      = "marketing.angle_requested"
)

// ProgressTopics lists the per-stage progress topics in stage order.
var ProgressTopics = []string{
	TopicBriefCreated,
	TopicLearningsAttached,
	TopicSignalsCollected,
	TopicThemesGenerated,
	TopicThemesGated,
	TopicShortlistRanked,
	TopicTimeFiltered,
	TopicCandidatesValidated,
	TopicConceptsCreated,
	TopicBriefsPublished,
}

// OutcomeTopics lists topics that downstream (out-of-process) consumers care
// about; the Kafka relay mirrors these.
var OutcomeTopics = []string{
	TopicBriefsPublished,
	TopicResearchAborted,
	TopicSupplierFeasibility,
	TopicMarketingAngle,
}

// AllTopics returns every known topic. Compaction iterates this list.
func AllTopics() []string {
	topics := []string{TopicResearchRequested}
	topics = append(topics, ProgressTopics...)
	topics = append(topics,
		TopicResearchAborted,
		TopicSupplierFeasibility,
		TopicMarketingAngle,
	)
	return topics
}

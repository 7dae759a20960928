package hermes

const (
	SubjectCatalogUpdated = "decision.catalog.updated"

	StreamName   = "DECISION_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

// StreamSubjects are captured by the JetStream stream.
var StreamSubjects = []string{"decision.>"}

func SubjectRankingCompleted(runID string) string { return "decision.ranking." + runID + ".completed" }
func SubjectRankingFailed(runID string) string    { return "decision.ranking." + runID + ".failed" }

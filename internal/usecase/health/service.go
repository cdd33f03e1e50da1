package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Entries int
	Checks  map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index     IndexStats
	embedding EmbeddingChecker
	cache     CachePinger
}

// New creates a Service. cache can be nil when no cache backend is configured.
func New(index IndexStats, embedding EmbeddingChecker, cache CachePinger) *Service {
	return &Service{index: index, embedding: embedding, cache: cache}
}

// Check runs health checks against all components. The index check fails
// until the knowledge base has been loaded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	entries := s.index.Len()
	if entries > 0 {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckError
	}

	if err := s.embedding.HealthCheck(ctx); err != nil {
		checks["embedding"] = CheckError
	} else {
		checks["embedding"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Entries: entries, Checks: checks}
}

package server

import (
	"sync"
	"time"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// Statistics is the body of GET /api/v1/statistics.
type Statistics struct {
	TotalRequests            int64   `json:"total_requests"`
	Successful               int64   `json:"successful"`
	Failed                   int64   `json:"failed"`
	ProfilesExcluded         int64   `json:"profiles_excluded"`
	AverageProcessingTimeMS  float64 `json:"average_processing_time_ms"`
	AverageOverallConfidence float64 `json:"average_overall_confidence"`
	UptimeSeconds            int64   `json:"uptime_seconds"`
	Version                  string  `json:"version"`
}

// stats accumulates per-process enrichment counters.
type stats struct {
	mu              sync.Mutex
	now             func() time.Time
	started         time.Time
	total           int64
	successful      int64
	failed          int64
	excluded        int64
	processingMS    int64
	confidenceTotal float64
}

func newStats(now func() time.Time) *stats {
	return &stats{now: now, started: now()}
}

// record counts one enrichment outcome.
func (s *stats) record(result *types.EnrichedProfileResult, err error, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.processingMS += elapsed.Milliseconds()
	if err != nil || result == nil {
		s.failed++
		return
	}
	s.successful++
	s.excluded += int64(result.Metadata.ProfilesExcluded)
	s.confidenceTotal += result.Profile.OverallConfidence
}

// snapshot returns the current counters.
func (s *stats) snapshot() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Statistics{
		TotalRequests:    s.total,
		Successful:       s.successful,
		Failed:           s.failed,
		ProfilesExcluded: s.excluded,
		UptimeSeconds:    int64(s.now().Sub(s.started).Seconds()),
		Version:          config.Version,
	}
	if s.total > 0 {
		out.AverageProcessingTimeMS = float64(s.processingMS) / float64(s.total)
	}
	if s.successful > 0 {
		out.AverageOverallConfidence = s.confidenceTotal / float64(s.successful)
	}
	return out
}

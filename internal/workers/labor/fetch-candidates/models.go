// internal/workers/labor/fetch-candidates/models.go
package fetchcandidates

import "crew-match-workers/internal/matching"

const (
	SourceInternalDB  = "internal_db"
	SourceSearchIndex = "search_index"
)

// hardMaxCandidates caps maxCandidates from job input.
const hardMaxCandidates = 2000

type Input struct {
	Request       matching.MatchRequest `json:"request"`
	Source        string                `json:"source"`
	MaxCandidates int                   `json:"maxCandidates,omitempty"`
}

type Output struct {
	Candidates     []matching.CandidateProfile `json:"candidates"`
	CandidateCount int                         `json:"candidateCount"`
	Source         string                      `json:"source"`
	CacheHit       bool                        `json:"cacheHit"`
}

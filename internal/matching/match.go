package matching

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	apperrors "crew-match-workers/internal/common/errors"
)

// Match scores candidates against req and returns the ranked shortlist. It
// is deterministic for identical arguments.
func Match(req MatchRequest, candidates []CandidateProfile, cfg ScoringConfig) ([]CandidateScore, error) {
	return MatchContext(context.Background(), req, candidates, cfg)
}

// MatchContext is Match with cancellation. Large candidate sets are scored
// in parallel; ranking waits for every score.
func MatchContext(ctx context.Context, req MatchRequest, candidates []CandidateProfile, cfg ScoringConfig) ([]CandidateScore, error) {
	ranked, _, err := MatchWithStats(ctx, req, candidates, cfg)
	return ranked, err
}

// Stats counts candidates at each end of the pipeline.
type Stats struct {
	Evaluated int `json:"evaluated"`
	Eligible  int `json:"eligible"`
	Returned  int `json:"returned"`
}

// MatchWithStats is MatchContext that also reports how many candidates
// passed the filters before truncation.
func MatchWithStats(ctx context.Context, req MatchRequest, candidates []CandidateProfile, cfg ScoringConfig) ([]CandidateScore, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, err
	}
	w, err := validateRequest(req, candidates)
	if err != nil {
		return nil, Stats{}, err
	}
	if len(candidates) == 0 {
		return []CandidateScore{}, Stats{}, nil
	}

	p := pipeline{
		req:       req,
		cfg:       cfg,
		window:    w,
		requested: skillSet(req.Skills),
	}

	results := make([]*CandidateScore, len(candidates))
	if cfg.ParallelThreshold > 0 && len(candidates) >= cfg.ParallelThreshold {
		err = p.scoreParallel(ctx, candidates, results)
	} else {
		err = p.scoreSerial(ctx, candidates, results)
	}
	if err != nil {
		return nil, Stats{}, apperrors.NewMatchCancelledError(err)
	}

	eligible := make([]CandidateScore, 0, len(results))
	for _, r := range results {
		if r != nil {
			eligible = append(eligible, *r)
		}
	}

	limit := cfg.TopN
	if req.Limit > 0 {
		limit = req.Limit
	}
	ranked := rank(eligible, limit)
	for i := range ranked {
		ranked[i].Rationale = rationale(ranked[i].TotalScore, req.Trade, ranked[i].MatchingSkills, cfg.RationaleSkillLimit)
	}
	return ranked, Stats{Evaluated: len(candidates), Eligible: len(eligible), Returned: len(ranked)}, nil
}

// Validate checks the request alone, with the same rules Match applies.
func (r MatchRequest) Validate() error {
	_, err := validateRequest(r, nil)
	return err
}

func validateRequest(req MatchRequest, candidates []CandidateProfile) (window, error) {
	if strings.TrimSpace(req.Trade) == "" {
		return window{}, apperrors.NewInvalidRequestError("trade is required")
	}
	w, err := parseWindow(req.DateWindow, req.TimeWindow)
	if err != nil {
		return window{}, apperrors.NewInvalidRequestError(err.Error())
	}
	if req.Limit < 0 {
		return window{}, apperrors.NewInvalidRequestError(fmt.Sprintf("limit must not be negative, got %d", req.Limit))
	}
	if req.CrewSize < 0 {
		return window{}, apperrors.NewInvalidRequestError(fmt.Sprintf("crew size must not be negative, got %d", req.CrewSize))
	}
	if err := validateLocation(req.Location); err != nil {
		return window{}, apperrors.NewInvalidRequestError(err.Error())
	}

	seen := make(map[string]struct{}, len(candidates))
	for i, c := range candidates {
		if c.ID == "" {
			return window{}, apperrors.NewInvalidRequestError(fmt.Sprintf("candidate at index %d has no id", i))
		}
		if _, dup := seen[c.ID]; dup {
			return window{}, apperrors.NewInvalidRequestError(fmt.Sprintf("duplicate candidate id %q", c.ID)).
				WithMetadata("candidateId", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return w, nil
}

type pipeline struct {
	req       MatchRequest
	cfg       ScoringConfig
	window    window
	requested map[string]struct{}
}

// score runs one candidate through every stage before ranking. A nil result
// means the candidate was filtered out.
func (p *pipeline) score(c CandidateProfile) *CandidateScore {
	avail := checkAvailability(c.Availability, p.window, p.cfg)
	if !avail.pass {
		return nil
	}
	if p.req.CrewSize > 0 && c.effectiveCrewSize() < p.req.CrewSize {
		return nil
	}

	skills := scoreSkills(p.requested, c.Skills)
	loc := scoreLocation(p.req.Location, c.Location, p.cfg)
	rating := ratingScore(c.Rating)

	return &CandidateScore{
		CandidateID:       c.ID,
		DisplayName:       c.DisplayName,
		SkillScore:        skills.score,
		RatingScore:       rating,
		AvailabilityScore: avail.score,
		LocationScore:     loc.score,
		TotalScore:        totalScore(skills.score, rating, avail.score, loc.score, p.cfg.Weights),
		ExperienceScore:   experienceScore(c.CompletedJobs),
		MatchingSkills:    skills.matching,
		MissingSkills:     skills.missing,
		DistanceKm:        loc.distanceKm,
	}
}

func (p *pipeline) scoreSerial(ctx context.Context, candidates []CandidateProfile, out []*CandidateScore) error {
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		out[i] = p.score(candidates[i])
	}
	return nil
}

// scoreParallel partitions candidates into contiguous chunks, one goroutine
// each. Goroutines write disjoint indices of out.
func (p *pipeline) scoreParallel(ctx context.Context, candidates []CandidateProfile, out []*CandidateScore) error {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(candidates) {
		workers = len(candidates)
	}
	chunk := (len(candidates) + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < len(candidates); lo += chunk {
		hi := lo + chunk
		if hi > len(candidates) {
			hi = len(candidates)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					return
				}
				out[i] = p.score(candidates[i])
			}
		}(lo, hi)
	}
	wg.Wait()

	return ctx.Err()
}

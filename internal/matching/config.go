package matching

import (
	"fmt"
	"math"
	"sort"

	apperrors "crew-match-workers/internal/common/errors"
)

const (
	DefaultTopN              = 5
	DefaultLocationCutoffKm  = 50.0
	DefaultParallelThreshold = 64

	weightTolerance = 1e-6
)

var (
	ErrInvalidRequest = &apperrors.StandardError{Code: apperrors.ErrCodeInvalidRequest}
	ErrConfiguration  = &apperrors.StandardError{Code: apperrors.ErrCodeConfiguration}
	ErrCancelled      = &apperrors.StandardError{Code: apperrors.ErrCodeMatchCancelled}
)

type Weights struct {
	Skill        float64 `json:"skill"`
	Rating       float64 `json:"rating"`
	Availability float64 `json:"availability"`
	Location     float64 `json:"location"`
}

func DefaultWeights() Weights {
	return Weights{Skill: 0.40, Rating: 0.30, Availability: 0.20, Location: 0.10}
}

func (w Weights) Sum() float64 {
	return w.Skill + w.Rating + w.Availability + w.Location
}

// ScoringConfig parameterises a match. Build it with DefaultScoringConfig or
// NewScoringConfig; a zero value does not validate.
type ScoringConfig struct {
	Weights                       Weights
	TopN                          int
	LocationCutoffKm              float64
	PermissiveAvailabilityDefault bool
	PartialAvailabilityCredit     bool

	// RegionProximity is keyed by RegionPair(a, b).
	RegionProximity     map[string]int
	RegionFallbackScore int

	// RationaleSkillLimit appends up to this many matching skills (0..2) to
	// the rationale.
	RationaleSkillLimit int

	ParallelThreshold int
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights:                       DefaultWeights(),
		TopN:                          DefaultTopN,
		LocationCutoffKm:              DefaultLocationCutoffKm,
		PermissiveAvailabilityDefault: true,
		RegionProximity:               map[string]int{},
		ParallelThreshold:             DefaultParallelThreshold,
	}
}

type Option func(*ScoringConfig)

func WithWeights(w Weights) Option {
	return func(c *ScoringConfig) { c.Weights = w }
}

func WithTopN(n int) Option {
	return func(c *ScoringConfig) { c.TopN = n }
}

func WithLocationCutoffKm(km float64) Option {
	return func(c *ScoringConfig) { c.LocationCutoffKm = km }
}

func WithPermissiveAvailability(enabled bool) Option {
	return func(c *ScoringConfig) { c.PermissiveAvailabilityDefault = enabled }
}

func WithPartialAvailabilityCredit(enabled bool) Option {
	return func(c *ScoringConfig) { c.PartialAvailabilityCredit = enabled }
}

func WithRegionProximity(a, b string, score int) Option {
	return func(c *ScoringConfig) {
		if c.RegionProximity == nil {
			c.RegionProximity = map[string]int{}
		}
		c.RegionProximity[RegionPair(a, b)] = score
	}
}

func WithRegionFallbackScore(score int) Option {
	return func(c *ScoringConfig) { c.RegionFallbackScore = score }
}

func WithRationaleSkillLimit(n int) Option {
	return func(c *ScoringConfig) { c.RationaleSkillLimit = n }
}

func WithParallelThreshold(n int) Option {
	return func(c *ScoringConfig) { c.ParallelThreshold = n }
}

// NewScoringConfig applies opts over the defaults and validates the result.
func NewScoringConfig(opts ...Option) (ScoringConfig, error) {
	cfg := DefaultScoringConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return ScoringConfig{}, err
	}
	return cfg, nil
}

func (c ScoringConfig) Validate() error {
	w := c.Weights
	named := []struct {
		name  string
		value float64
	}{
		{"skill", w.Skill}, {"rating", w.Rating}, {"availability", w.Availability}, {"location", w.Location},
	}
	for _, n := range named {
		if n.value < 0 || math.IsNaN(n.value) {
			return apperrors.NewConfigurationError(fmt.Sprintf("weight %s must be non-negative, got %v", n.name, n.value))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return apperrors.NewConfigurationError(fmt.Sprintf("weights must sum to 1.0, got %.6f", sum))
	}
	if c.TopN <= 0 {
		return apperrors.NewConfigurationError(fmt.Sprintf("topN must be positive, got %d", c.TopN))
	}
	if c.LocationCutoffKm <= 0 || math.IsNaN(c.LocationCutoffKm) {
		return apperrors.NewConfigurationError(fmt.Sprintf("location cutoff must be positive, got %v", c.LocationCutoffKm))
	}
	if c.RegionFallbackScore < 0 || c.RegionFallbackScore > 100 {
		return apperrors.NewConfigurationError(fmt.Sprintf("region fallback score out of range: %d", c.RegionFallbackScore))
	}

	pairs := make([]string, 0, len(c.RegionProximity))
	for pair := range c.RegionProximity {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)
	for _, pair := range pairs {
		if score := c.RegionProximity[pair]; score < 0 || score > 100 {
			return apperrors.NewConfigurationError(fmt.Sprintf("region proximity %q out of range: %d", pair, score))
		}
	}

	if c.RationaleSkillLimit < 0 || c.RationaleSkillLimit > 2 {
		return apperrors.NewConfigurationError(fmt.Sprintf("rationale skill limit must be 0..2, got %d", c.RationaleSkillLimit))
	}
	if c.ParallelThreshold < 0 {
		return apperrors.NewConfigurationError(fmt.Sprintf("parallel threshold must be non-negative, got %d", c.ParallelThreshold))
	}
	return nil
}

// RegionPair returns the order-independent lookup key for two regions.
func RegionPair(a, b string) string {
	a, b = canonicalRegion(a), canonicalRegion(b)
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

func canonicalRegion(r string) string {
	return canonicalTag(r)
}

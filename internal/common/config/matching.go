// internal/common/config/matching.go
package config

import (
	"fmt"
	"sort"
	"time"

	apperrors "crew-match-workers/internal/common/errors"
	"crew-match-workers/internal/matching"
)

const (
	ProfileStandard          = "standard"
	ProfileCrewOptimization  = "crew-optimization"
	ProfileSkillMatrix       = "skill-matrix"
	ProfileLaborAvailability = "labor-availability"
	ProfileWalkIn            = "walk-in"
)

// builtinWeights are the weight sets shipped with the service.
var builtinWeights = map[string]matching.Weights{
	ProfileStandard:          {Skill: 0.40, Rating: 0.30, Availability: 0.20, Location: 0.10},
	ProfileCrewOptimization:  {Skill: 0.35, Rating: 0.25, Availability: 0.25, Location: 0.15},
	ProfileSkillMatrix:       {Skill: 0.60, Rating: 0.20, Availability: 0.10, Location: 0.10},
	ProfileLaborAvailability: {Skill: 0.25, Rating: 0.20, Availability: 0.45, Location: 0.10},
	ProfileWalkIn:            {Skill: 0.40, Rating: 0.10, Availability: 0.20, Location: 0.30},
}

// BuiltinProfiles lists the shipped profile names in sorted order.
func BuiltinProfiles() []string {
	names := make([]string, 0, len(builtinWeights))
	for name := range builtinWeights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScoringConfigs builds one validated scoring config per profile: the
// built-in profiles first, then any configured overrides or additions.
func (m MatchingConfig) ScoringConfigs() (map[string]matching.ScoringConfig, error) {
	names := BuiltinProfiles()
	for name := range m.Profiles {
		if _, ok := builtinWeights[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make(map[string]matching.ScoringConfig, len(names))
	for _, name := range names {
		cfg, err := m.scoringConfig(name)
		if err != nil {
			return nil, err
		}
		out[name] = cfg
	}

	if _, ok := out[m.DefaultProfileName()]; !ok {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("matching.default_profile %q is not defined", m.DefaultProfileName()))
	}
	return out, nil
}

func (m MatchingConfig) scoringConfig(name string) (matching.ScoringConfig, error) {
	weights, ok := builtinWeights[name]
	if !ok {
		weights = builtinWeights[ProfileStandard]
	}

	opts := []matching.Option{matching.WithWeights(weights)}
	if m.ParallelThreshold > 0 {
		opts = append(opts, matching.WithParallelThreshold(m.ParallelThreshold))
	}
	for _, rp := range m.RegionProximity {
		opts = append(opts, matching.WithRegionProximity(rp.A, rp.B, rp.Score))
	}

	if p, ok := m.Profiles[name]; ok {
		// A weights block, even an all-zero one, replaces the built-in set.
		if p.Weights != nil {
			opts = append(opts, matching.WithWeights(matching.Weights{
				Skill:        p.Weights.Skill,
				Rating:       p.Weights.Rating,
				Availability: p.Weights.Availability,
				Location:     p.Weights.Location,
			}))
		}
		if p.TopN != 0 {
			opts = append(opts, matching.WithTopN(p.TopN))
		}
		if p.LocationCutoffKm != 0 {
			opts = append(opts, matching.WithLocationCutoffKm(p.LocationCutoffKm))
		}
		if p.PermissiveAvailability != nil {
			opts = append(opts, matching.WithPermissiveAvailability(*p.PermissiveAvailability))
		}
		if p.PartialAvailabilityCredit != nil {
			opts = append(opts, matching.WithPartialAvailabilityCredit(*p.PartialAvailabilityCredit))
		}
		if p.RegionFallbackScore != nil {
			opts = append(opts, matching.WithRegionFallbackScore(*p.RegionFallbackScore))
		}
		if p.RationaleSkillLimit != nil {
			opts = append(opts, matching.WithRationaleSkillLimit(*p.RationaleSkillLimit))
		}
	}

	cfg, err := matching.NewScoringConfig(opts...)
	if err != nil {
		return matching.ScoringConfig{}, apperrors.Normalize(err).WithMetadata("profile", name)
	}
	return cfg, nil
}

// DefaultProfileName returns the configured default profile or "standard".
func (m MatchingConfig) DefaultProfileName() string {
	if m.DefaultProfile == "" {
		return ProfileStandard
	}
	return m.DefaultProfile
}

// SlowThreshold is the ranking duration above which the worker warns.
func (m MatchingConfig) SlowThreshold() time.Duration {
	if m.SlowThresholdMs <= 0 {
		return 500 * time.Millisecond
	}
	return GetDuration(m.SlowThresholdMs)
}

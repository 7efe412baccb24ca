// internal/workers/labor/rank-candidates/config.go
package rankcandidates

import (
	"time"

	"crew-match-workers/internal/matching"
)

type Config struct {
	Timeout        time.Duration
	SlowThreshold  time.Duration
	DefaultProfile string
	Profiles       map[string]matching.ScoringConfig
}

// LoadConfig returns a config with only the standard profile. The worker
// manager replaces Profiles with the configured set.
func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		SlowThreshold:  500 * time.Millisecond,
		DefaultProfile: "standard",
		Profiles: map[string]matching.ScoringConfig{
			"standard": matching.DefaultScoringConfig(),
		},
	}
}

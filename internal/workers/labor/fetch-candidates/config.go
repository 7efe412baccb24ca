// internal/workers/labor/fetch-candidates/config.go
package fetchcandidates

import "time"

type Config struct {
	Timeout          time.Duration
	CacheTTL         time.Duration
	CandidateIndex   string
	MaxCandidates    int
	LocationCutoffKm float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		CacheTTL:         5 * time.Minute,
		CandidateIndex:   "candidates",
		MaxCandidates:    500,
		LocationCutoffKm: 50,
	}
}

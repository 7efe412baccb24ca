package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "crew-match-workers/internal/common/errors"
	"crew-match-workers/internal/matching"
)

const baseYAML = `
app:
  name: crew-match-workers
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    port: 5432
    database: crew
    user: crew
    password: ${TEST_DB_PASSWORD}
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
workers:
  fetch-candidates:
    enabled: true
    cache_ttl: 300
  notify-shortlist:
    enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Loading
// ==========================

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.URL)
	assert.Equal(t, "candidates", cfg.Database.Elasticsearch.CandidateIndex)
	assert.Equal(t, ProfileStandard, cfg.Matching.DefaultProfile)
	assert.Equal(t, 8080, cfg.Observability.HealthPort)

	fetch := GetWorkerConfig(cfg, "fetch-candidates")
	assert.True(t, fetch.Enabled)
	assert.Equal(t, 300, fetch.CacheTTL)
	assert.Equal(t, 5, fetch.MaxJobsActive)
	assert.Equal(t, 3, fetch.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "notify-shortlist"))
	assert.True(t, IsWorkerEnabled(cfg, "rank-candidates"))
}

func TestLoadFromFile_MissingRequired(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "camunda:\n  broker_address: localhost:26500\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.host")
}

func TestLoadFromFile_InvalidProfileFailsFast(t *testing.T) {
	body := baseYAML + `
matching:
  profiles:
    standard:
      weights:
        skill: 0.5
        rating: 0.3
        availability: 0.2
        location: 0.1
`
	_, err := LoadFromFile(writeConfig(t, body))
	require.Error(t, err)
	assert.True(t, errors.Is(err, matching.ErrConfiguration))
}

// ==========================
// Scoring profiles
// ==========================

func TestScoringConfigs_Builtins(t *testing.T) {
	configs, err := MatchingConfig{}.ScoringConfigs()
	require.NoError(t, err)

	require.Len(t, configs, 5)
	assert.Equal(t, matching.DefaultWeights(), configs[ProfileStandard].Weights)
	assert.Equal(t, matching.Weights{Skill: 0.25, Rating: 0.20, Availability: 0.45, Location: 0.10},
		configs[ProfileLaborAvailability].Weights)
	assert.Equal(t, matching.Weights{Skill: 0.40, Rating: 0.10, Availability: 0.20, Location: 0.30},
		configs[ProfileWalkIn].Weights)

	for name, c := range configs {
		assert.NoError(t, c.Validate(), name)
		assert.Equal(t, matching.DefaultTopN, c.TopN, name)
		assert.True(t, c.PermissiveAvailabilityDefault, name)
	}
}

func TestScoringConfigs_Overrides(t *testing.T) {
	conservative := false
	limit := 2

	m := MatchingConfig{
		DefaultProfile: "night-shift",
		Profiles: map[string]ProfileConfig{
			ProfileSkillMatrix: {TopN: 10, RationaleSkillLimit: &limit},
			"night-shift": {
				Weights:                &WeightsConfig{Skill: 0.5, Rating: 0.2, Availability: 0.3},
				PermissiveAvailability: &conservative,
			},
		},
		RegionProximity:   []RegionProximityConfig{{A: "Downtown", B: "Midtown", Score: 80}},
		ParallelThreshold: 16,
	}

	configs, err := m.ScoringConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 6)

	skill := configs[ProfileSkillMatrix]
	assert.Equal(t, 10, skill.TopN)
	assert.Equal(t, 2, skill.RationaleSkillLimit)
	assert.Equal(t, 0.60, skill.Weights.Skill)

	night := configs["night-shift"]
	assert.Equal(t, 0.0, night.Weights.Location)
	assert.False(t, night.PermissiveAvailabilityDefault)
	assert.Equal(t, 16, night.ParallelThreshold)
	assert.Equal(t, 80, night.RegionProximity[matching.RegionPair("midtown", "downtown")])
}

func TestScoringConfigs_Errors(t *testing.T) {
	tooMany := 3

	tests := []struct {
		name string
		cfg  MatchingConfig
	}{
		{
			name: "unknown default profile",
			cfg:  MatchingConfig{DefaultProfile: "overnight"},
		},
		{
			name: "rationale limit out of range",
			cfg:  MatchingConfig{Profiles: map[string]ProfileConfig{ProfileWalkIn: {RationaleSkillLimit: &tooMany}}},
		},
		{
			name: "all-zero weights",
			cfg:  MatchingConfig{Profiles: map[string]ProfileConfig{ProfileStandard: {Weights: &WeightsConfig{}}}},
		},
		{
			name: "region score out of range",
			cfg:  MatchingConfig{RegionProximity: []RegionProximityConfig{{A: "a", B: "b", Score: 150}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.ScoringConfigs()
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeConfiguration, stdErr.Code)
		})
	}
}

func TestMatchingConfig_SlowThreshold(t *testing.T) {
	assert.Equal(t, "500ms", MatchingConfig{}.SlowThreshold().String())
	assert.Equal(t, "2s", MatchingConfig{SlowThresholdMs: 2000}.SlowThreshold().String())
}

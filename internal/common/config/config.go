// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Matching      MatchingConfig          `mapstructure:"matching"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses      []string `mapstructure:"addresses"`
	Username       string   `mapstructure:"username"`
	Password       string   `mapstructure:"password"`
	URL            string   `mapstructure:"url"`
	CandidateIndex string   `mapstructure:"candidate_index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
	CacheTTL      int  `mapstructure:"cache_ttl"`   // seconds, fetch-candidates only
}

// --- Matching ---

// MatchingConfig holds the scoring profiles used by the rank-candidates worker.
type MatchingConfig struct {
	DefaultProfile    string                   `mapstructure:"default_profile"`
	Profiles          map[string]ProfileConfig `mapstructure:"profiles"`
	RegionProximity   []RegionProximityConfig  `mapstructure:"region_proximity"`
	ParallelThreshold int                      `mapstructure:"parallel_threshold"`
	SlowThresholdMs   int                      `mapstructure:"slow_threshold_ms"`
}

// ProfileConfig overrides a scoring profile. Unset fields inherit from the
// built-in profile of the same name, or from "standard".
type ProfileConfig struct {
	Weights                   *WeightsConfig `mapstructure:"weights"`
	TopN                      int            `mapstructure:"top_n"`
	LocationCutoffKm          float64        `mapstructure:"location_cutoff_km"`
	PermissiveAvailability    *bool          `mapstructure:"permissive_availability"`
	PartialAvailabilityCredit *bool          `mapstructure:"partial_availability_credit"`
	RegionFallbackScore       *int           `mapstructure:"region_fallback_score"`
	RationaleSkillLimit       *int           `mapstructure:"rationale_skill_limit"`
}

type WeightsConfig struct {
	Skill        float64 `mapstructure:"skill"`
	Rating       float64 `mapstructure:"rating"`
	Availability float64 `mapstructure:"availability"`
	Location     float64 `mapstructure:"location"`
}

type RegionProximityConfig struct {
	A     string `mapstructure:"a"`
	B     string `mapstructure:"b"`
	Score int    `mapstructure:"score"`
}

// --- Notifications ---

// NotificationConfig holds settings for the notify-shortlist worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	HealthPort     int    `mapstructure:"health_port"`
}

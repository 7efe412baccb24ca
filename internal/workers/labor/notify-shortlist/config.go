// internal/workers/labor/notify-shortlist/config.go
package notifyshortlist

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SenderID     string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "shortlists@crewmatch.example",
	}
}

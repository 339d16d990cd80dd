// internal/workers/discovery/generate-explanations/config.go
package generateexplanations

import "time"

type Config struct {
	CacheTTL     time.Duration
	Timeout      time.Duration
	GenAIBaseURL string
	GenAIAPIKey  string
	MaxTokens    int
	MaxRetries   int
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:   10 * time.Minute,
		Timeout:    60 * time.Second,
		MaxTokens:  2048,
		MaxRetries: 2,
	}
}

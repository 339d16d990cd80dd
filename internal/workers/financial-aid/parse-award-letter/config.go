// internal/workers/financial-aid/parse-award-letter/config.go
package parseawardletter

import "time"

type Config struct {
	Timeout      time.Duration
	GenAIBaseURL string
	GenAIAPIKey  string
	MaxTokens    int
	MaxRetries   int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    60 * time.Second,
		MaxTokens:  2048,
		MaxRetries: 2,
	}
}

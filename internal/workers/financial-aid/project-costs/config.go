// internal/workers/financial-aid/project-costs/config.go
package projectcosts

import "time"

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  30 * time.Second,
	}
}

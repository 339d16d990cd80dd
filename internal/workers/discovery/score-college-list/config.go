// internal/workers/discovery/score-college-list/config.go
package scorecollegelist

import "time"

type Config struct {
	CacheTTL        time.Duration
	Timeout         time.Duration
	CollegesPerTier int
	Policy          Policy
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:        10 * time.Minute,
		Timeout:         30 * time.Second,
		CollegesPerTier: 5,
		Policy:          DefaultPolicy,
	}
}

// internal/workers/scholarships/send-deadline-reminder/config.go
package senddeadlinereminder

import "time"

type Config struct {
	CacheTTL   time.Duration
	Timeout    time.Duration
	WindowDays int
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:   10 * time.Minute,
		Timeout:    30 * time.Second,
		WindowDays: 14,
	}
}

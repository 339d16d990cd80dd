// internal/workers/discovery/search-colleges/config.go
package searchcolleges

import "time"

type Config struct {
	Timeout        time.Duration
	CollegeIndex   string
	DefaultPerPage int
	MaxPerPage     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		CollegeIndex:   "colleges",
		DefaultPerPage: 20,
		MaxPerPage:     50,
	}
}

// internal/common/config/loader_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func workersFixture() *Config {
	return &Config{
		Workers: map[string]WorkerConfig{
			"score-college-list": {
				Enabled:       true,
				MaxJobsActive: 5,
				Timeout:       30000,
				MaxRetries:    3,
			},
			"parse-award-letter": {
				Enabled:       false,
				MaxJobsActive: 3,
				Timeout:       60000,
				MaxRetries:    2,
			},
		},
	}
}

func TestConfig_GetDuration(t *testing.T) {
	cfg := workersFixture()

	assert.Equal(t, 30*time.Second, cfg.GetDuration(30000))
	assert.Equal(t, 1500*time.Millisecond, cfg.GetDuration(1500))
	assert.Equal(t, time.Duration(0), cfg.GetDuration(0))
}

func TestConfig_IsWorkerEnabled(t *testing.T) {
	cfg := workersFixture()

	tests := []struct {
		name    string
		worker  string
		enabled bool
	}{
		{"enabled worker", "score-college-list", true},
		{"disabled worker", "parse-award-letter", false},
		{"unknown worker defaults on", "match-employers", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enabled, cfg.IsWorkerEnabled(tt.worker))
		})
	}
}

func TestConfig_GetWorkerConfig(t *testing.T) {
	cfg := workersFixture()

	configured := cfg.GetWorkerConfig("parse-award-letter")
	assert.False(t, configured.Enabled)
	assert.Equal(t, 60000, configured.Timeout)
	assert.Equal(t, 2, configured.MaxRetries)

	// Unconfigured workers get the defaults, not a zero value.
	fallback := cfg.GetWorkerConfig("send-deadline-reminder")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 5, fallback.MaxJobsActive)
	assert.Equal(t, 30000, fallback.Timeout)
	assert.Equal(t, 3, fallback.MaxRetries)
}

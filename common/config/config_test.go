package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("queue-service")
	require.NoError(t, err)

	assert.Equal(t, "queue-service", cfg.Service.Name)
	assert.Equal(t, 8000, cfg.Service.Port)
	assert.Equal(t, 5, cfg.Queue.AverageServiceTime)
	assert.Equal(t, 20, cfg.Queue.TotalTables)
	assert.Equal(t, 8, cfg.Scheduling.OpeningHour)
	assert.Equal(t, 20, cfg.Scheduling.ClosingHour)
	assert.Equal(t, 15*time.Minute, cfg.Scheduling.SlotGranularity)
	assert.Equal(t, int64(30), cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "memory", cfg.Bus.Type)
	assert.Equal(t, DefaultPriorityRules, cfg.Queue.PriorityRules)
	assert.Equal(t, "UTC", cfg.Shop.Timezone)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("TOTAL_TABLES", "4")
	t.Setenv("REMINDER_INTERVAL", "30s")
	t.Setenv("PRIORITY_RULES", `[{"when":"entry.party_size >= 6","priority":2}]`)

	cfg, err := Load("queue-service")
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Service.Port)
	assert.Equal(t, 4, cfg.Queue.TotalTables)
	assert.Equal(t, 30*time.Second, cfg.Scheduling.ReminderInterval)
	require.Len(t, cfg.Queue.PriorityRules, 1)
	assert.Equal(t, "entry.party_size >= 6", cfg.Queue.PriorityRules[0].When)
	assert.Equal(t, 2, cfg.Queue.PriorityRules[0].Priority)
}

func TestLoad_InvalidPriorityRules(t *testing.T) {
	t.Setenv("PRIORITY_RULES", `not json`)

	_, err := Load("queue-service")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Service.Port = 0 }},
		{"unknown bus", func(c *Config) { c.Bus.Type = "kafka" }},
		{"redis bus without redis", func(c *Config) { c.Bus.Type = "redis"; c.Redis.Enabled = false }},
		{"inverted hours", func(c *Config) { c.Scheduling.OpeningHour = 20; c.Scheduling.ClosingHour = 8 }},
		{"rule out of range", func(c *Config) { c.Queue.PriorityRules = []PriorityRule{{When: "true", Priority: 11}} }},
		{"unknown log level", func(c *Config) { c.Service.LogLevel = "verbose" }},
		{"unknown timezone", func(c *Config) { c.Shop.Timezone = "Mars/Olympus_Mons" }},
		{"empty rule", func(c *Config) { c.Queue.PriorityRules = []PriorityRule{{When: " ", Priority: 1}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("queue-service")
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

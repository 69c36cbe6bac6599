package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/coffeecorner/queue/common/logger"
	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Service    ServiceConfig
	Shop       ShopConfig
	Redis      RedisConfig
	Bus        BusConfig
	Queue      QueueConfig
	Scheduling SchedulingConfig
	RateLimit  RateLimitConfig
	Cache      CacheConfig
	Telemetry  TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	BaseURL     string
}

// ShopConfig describes the shop shown in customer-facing messages.
// Timezone is an IANA name used for calendar days and business hours.
type ShopConfig struct {
	Name     string
	Location string
	Timezone string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

// BusConfig selects the message bus used for display notifications
type BusConfig struct {
	Type          string // "memory" or "redis"
	ChannelPrefix string
}

// PriorityRule maps a CEL condition over a join request to a priority
type PriorityRule struct {
	When     string `json:"when"`
	Priority int    `json:"priority"`
}

// QueueConfig holds queue manager settings
type QueueConfig struct {
	AverageServiceTime int // minutes
	DefaultPrepTime    int // minutes
	MaxQueueSize       int
	TotalTables        int
	ProgressInterval   time.Duration
	QRSessionTTL       time.Duration
	PriorityRules      []PriorityRule
}

// SchedulingConfig holds appointment booking settings
type SchedulingConfig struct {
	OpeningHour       int
	ClosingHour       int
	SlotGranularity   time.Duration
	ReminderInterval  time.Duration
	ReminderTolerance time.Duration
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int64
}

// CacheConfig holds idempotency cache settings
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof   bool
	PprofPort     int
	EnableMetrics bool
	MetricsPort   int
}

// DefaultPriorityRules applies when PRIORITY_RULES is unset
var DefaultPriorityRules = []PriorityRule{
	{When: "size(entry.accessibility_needs) > 0", Priority: 5},
}

// Load loads configuration from environment variables, reading .env first when present
func Load(serviceName string) (*Config, error) {
	_ = godotenv.Load()

	rules, err := getEnvPriorityRules("PRIORITY_RULES", DefaultPriorityRules)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8000),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
			BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		},
		Shop: ShopConfig{
			Name:     getEnv("SHOP_NAME", "Coffee Corner"),
			Location: getEnv("SHOP_LOCATION", "Downtown"),
			Timezone: getEnv("SHOP_TIMEZONE", "UTC"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			URL:      getEnv("REDIS_URL", ""),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Bus: BusConfig{
			Type:          getEnv("BUS_TYPE", "memory"),
			ChannelPrefix: getEnv("BUS_CHANNEL_PREFIX", "coffeecorner"),
		},
		Queue: QueueConfig{
			AverageServiceTime: getEnvInt("AVERAGE_SERVICE_TIME", 5),
			DefaultPrepTime:    getEnvInt("DEFAULT_PREP_TIME", 5),
			MaxQueueSize:       getEnvInt("MAX_QUEUE_SIZE", 50),
			TotalTables:        getEnvInt("TOTAL_TABLES", 20),
			ProgressInterval:   getEnvDuration("QUEUE_PROGRESS_INTERVAL", 30*time.Second),
			QRSessionTTL:       getEnvDuration("QR_SESSION_TTL", 8*time.Hour),
			PriorityRules:      rules,
		},
		Scheduling: SchedulingConfig{
			OpeningHour:       getEnvInt("APPOINTMENT_OPENING_HOUR", 8),
			ClosingHour:       getEnvInt("APPOINTMENT_CLOSING_HOUR", 20),
			SlotGranularity:   getEnvDuration("APPOINTMENT_SLOT_GRANULARITY", 15*time.Minute),
			ReminderInterval:  getEnvDuration("REMINDER_INTERVAL", time.Minute),
			ReminderTolerance: getEnvDuration("REMINDER_TOLERANCE", 15*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: int64(getEnvInt("MAX_REQUESTS_PER_MINUTE", 30)),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("IDEMPOTENCY_ENABLED", true),
			DefaultTTL: getEnvDuration("IDEMPOTENCY_TTL", 10*time.Minute),
		},
		Telemetry: TelemetryConfig{
			EnablePprof:   getEnvBool("ENABLE_PPROF", false),
			PprofPort:     getEnvInt("PPROF_PORT", 6060),
			EnableMetrics: getEnvBool("ENABLE_METRICS", true),
			MetricsPort:   getEnvInt("METRICS_PORT", 9090),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if _, err := logger.ParseLevel(c.Service.LogLevel); err != nil {
		return err
	}

	if c.Bus.Type != "memory" && c.Bus.Type != "redis" {
		return fmt.Errorf("unknown bus type: %s", c.Bus.Type)
	}

	if c.Bus.Type == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("bus type redis requires REDIS_ENABLED=true")
	}

	if c.Queue.TotalTables < 0 {
		return fmt.Errorf("total_tables must be >= 0")
	}

	if c.Queue.MaxQueueSize < 1 {
		return fmt.Errorf("max_queue_size must be >= 1")
	}

	if c.Queue.AverageServiceTime < 0 {
		return fmt.Errorf("average_service_time must be >= 0")
	}

	if c.Scheduling.OpeningHour < 0 || c.Scheduling.ClosingHour > 24 ||
		c.Scheduling.OpeningHour >= c.Scheduling.ClosingHour {
		return fmt.Errorf("invalid business hours: [%d, %d)", c.Scheduling.OpeningHour, c.Scheduling.ClosingHour)
	}

	if _, err := time.LoadLocation(c.Shop.Timezone); err != nil {
		return fmt.Errorf("invalid shop timezone %q: %w", c.Shop.Timezone, err)
	}

	if c.Scheduling.SlotGranularity <= 0 {
		return fmt.Errorf("slot granularity must be positive")
	}

	for i, rule := range c.Queue.PriorityRules {
		if strings.TrimSpace(rule.When) == "" {
			return fmt.Errorf("priority rule %d: empty condition", i)
		}
		if rule.Priority < 0 || rule.Priority > 10 {
			return fmt.Errorf("priority rule %d: priority %d out of range 0-10", i, rule.Priority)
		}
	}

	return nil
}

// RedisAddr returns host:port for the Redis connection
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvPriorityRules parses a JSON array of {"when","priority"} objects
func getEnvPriorityRules(key string, defaultValue []PriorityRule) ([]PriorityRule, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	var rules []PriorityRule
	if err := json.Unmarshal([]byte(value), &rules); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return rules, nil
}

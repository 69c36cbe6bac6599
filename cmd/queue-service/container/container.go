package container

import (
	"fmt"

	"github.com/coffeecorner/queue/cmd/queue-service/display"
	"github.com/coffeecorner/queue/cmd/queue-service/service"
	"github.com/coffeecorner/queue/cmd/queue-service/supervisor"
	"github.com/coffeecorner/queue/common/bootstrap"
	"github.com/coffeecorner/queue/common/ratelimit"
)

// Container holds all initialized services (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Services
	Manager      *service.QueueManager
	Notifier     *service.Notifier
	Rules        *service.PriorityRules
	QueueService *service.VirtualQueueService

	// Displays
	DisplayHub        *display.Hub
	DisplaySubscriber *display.Subscriber

	// Background sweeps
	Reminders *supervisor.Sweeper
	Progress  *supervisor.Sweeper

	// RateLimiter is nil when Redis is disabled
	RateLimiter *ratelimit.RateLimiter
}

// NewContainer initializes all services once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config
	log := components.Logger

	rules, err := service.NewPriorityRules(cfg.Queue.PriorityRules, log)
	if err != nil {
		return nil, fmt.Errorf("failed to compile priority rules: %w", err)
	}

	settings, err := service.SettingsFrom(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize services (bottom-up: dependencies first)
	manager := service.NewQueueManager(service.ManagerConfigFrom(cfg))
	notifier := service.NewNotifier(components.Bus, cfg.Shop.Name, log)
	queueService := service.NewVirtualQueueService(manager, notifier, rules, settings, log)

	c := &Container{
		Components:   components,
		Manager:      manager,
		Notifier:     notifier,
		Rules:        rules,
		QueueService: queueService,
		Reminders:    supervisor.NewReminderSweeper(queueService, cfg.Scheduling.ReminderInterval, log),
		Progress:     supervisor.NewProgressSweeper(queueService, cfg.Queue.ProgressInterval, log),
	}

	if components.Bus != nil {
		c.DisplayHub = display.NewHub(log)
		c.DisplaySubscriber = display.NewSubscriber(components.Bus, c.DisplayHub, service.DisplayTopic, log)
	}

	if components.Redis != nil && cfg.RateLimit.Enabled {
		c.RateLimiter = ratelimit.NewRateLimiter(components.Redis, log)
	}

	log.Info("service container initialized",
		"tables", manager.TotalTables(),
		"priority_rules", len(cfg.Queue.PriorityRules),
		"displays", c.DisplayHub != nil,
		"rate_limit", c.RateLimiter != nil,
	)
	return c, nil
}

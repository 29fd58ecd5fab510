package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/aatumaykin/taskpool/internal/constants"
	"github.com/aatumaykin/taskpool/internal/workers"
)

// Validate проверяет валидность конфигурации и возвращает все найденные ошибки
func (c *Config) Validate() []error {
	var errors []error

	errors = append(errors, c.Pool.validate()...)

	// Проверка logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}
	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	if c.Metrics.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.ListenAddr); err != nil {
			errors = append(errors, fmt.Errorf("invalid metrics.listen_addr: %w", err))
		}
	}

	if c.Feeder.Count < 0 {
		errors = append(errors, fmt.Errorf("feeder.count must be >= 0 (got %d)", c.Feeder.Count))
	}
	if c.Feeder.Interval < 0 {
		errors = append(errors, fmt.Errorf("feeder.interval must be positive (got %s)", c.Feeder.Interval))
	}
	if c.Feeder.TaskDuration < 0 {
		errors = append(errors, fmt.Errorf("feeder.task_duration must be >= 0 (got %s)", c.Feeder.TaskDuration))
	}

	return errors
}

func (p PoolConfig) validate() []error {
	var errors []error

	if p.Workers < constants.MinSize || p.Workers > constants.MaxPoolSize {
		errors = append(errors, fmt.Errorf("pool.workers must be between %d and %d (got %d)",
			constants.MinSize, constants.MaxPoolSize, p.Workers))
	}
	if p.QueueCapacity < constants.MinSize || p.QueueCapacity > constants.MaxQueueCapacity {
		errors = append(errors, fmt.Errorf("pool.queue_capacity must be between %d and %d (got %d)",
			constants.MinSize, constants.MaxQueueCapacity, p.QueueCapacity))
	}
	if _, err := workers.ParseShutdownPolicy(p.ShutdownPolicy); err != nil {
		errors = append(errors, fmt.Errorf("pool.shutdown_policy: %w", err))
	}

	return errors
}

package config

import (
	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/aatumaykin/taskpool/internal/workers"
)

// ExecutorConfig преобразует секцию [pool] в конфигурацию executor.
// prom может быть nil, если метрики отключены.
func (p PoolConfig) ExecutorConfig(prom *workers.PrometheusMetrics) (workers.Config, error) {
	policy, err := workers.ParseShutdownPolicy(p.ShutdownPolicy)
	if err != nil {
		return workers.Config{}, err
	}

	return workers.Config{
		Workers:        p.Workers,
		QueueCapacity:  p.QueueCapacity,
		AutoStart:      p.AutoStart,
		ShutdownPolicy: policy,
		Prometheus:     prom,
	}, nil
}

// LoggerConfig преобразует секцию [logging] в конфигурацию logger
func (l LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  l.Level,
		Format: l.Format,
		Output: l.Output,
	}
}

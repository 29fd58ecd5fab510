package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aatumaykin/taskpool/internal/config"
	"github.com/aatumaykin/taskpool/internal/constants"
	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/aatumaykin/taskpool/internal/workers"
	"github.com/prometheus/client_golang/prometheus"
)

// loadConfig loads path, or the default config file when path is empty.
// Without any config file the built-in defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnvOptional(constants.DefaultEnvPath); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", constants.DefaultEnvPath, err)
	}

	if path == "" {
		if _, err := os.Stat(constants.DefaultConfigPath); err != nil {
			return config.Default(), nil
		}
		path = constants.DefaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config %s: %w", path, errors.Join(errs...))
	}
	return cfg, nil
}

// setupLogger builds the process logger from cfg and installs it as the
// slog default.
func setupLogger(cfg *config.Config) (*logger.Logger, error) {
	logCfg := cfg.Logging.LoggerConfig()
	if debug {
		logCfg.Level = "debug"
	}

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}

// executorConfig converts the [pool] section. Prometheus collectors are
// registered on reg when it is not nil.
func executorConfig(cfg *config.Config, reg prometheus.Registerer) (workers.Config, error) {
	var prom *workers.PrometheusMetrics
	if reg != nil {
		prom = workers.InitPrometheusMetrics(cfg.Metrics.Namespace, reg)
	}

	execCfg, err := cfg.Pool.ExecutorConfig(prom)
	if err != nil {
		return workers.Config{}, err
	}
	execCfg.AutoStart = true
	return execCfg, nil
}

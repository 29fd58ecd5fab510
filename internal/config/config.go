package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aatumaykin/taskpool/internal/constants"
	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из TOML или YAML файла.
// Формат определяется по расширению: .yaml и .yml читаются как YAML,
// всё остальное как TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает конфигурацию из data в формате format ("toml" или "yaml")
// и применяет значения по умолчанию.
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// Default возвращает конфигурацию, заполненную значениями по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.Pool.AutoStart = true
	applyDefaults(cfg)
	return cfg
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// applyDefaults применяет значения по умолчанию
func applyDefaults(c *Config) {
	if c.Pool.Workers == 0 {
		c.Pool.Workers = constants.DefaultPoolSize
	}
	if c.Pool.QueueCapacity == 0 {
		c.Pool.QueueCapacity = constants.DefaultQueueCapacity
	}
	if c.Pool.ShutdownPolicy == "" {
		c.Pool.ShutdownPolicy = constants.DefaultShutdownPolicy
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = constants.DefaultMetricsNamespace
	}

	if c.Feeder.Count == 0 {
		c.Feeder.Count = constants.DefaultFeedCount
	}
	if c.Feeder.Interval == 0 {
		c.Feeder.Interval = constants.DefaultFeedInterval
	}
	if c.Feeder.TaskDuration == 0 {
		c.Feeder.TaskDuration = constants.DefaultFeedTaskDuration
	}
}

// expandEnvVars расширяет переменные окружения в строковых полях
func expandEnvVars(c *Config) {
	c.Pool.ShutdownPolicy = expandEnv(c.Pool.ShutdownPolicy)
	c.Logging.Level = expandEnv(c.Logging.Level)
	c.Logging.Output = expandHome(expandEnv(c.Logging.Output))
	c.Metrics.ListenAddr = expandEnv(c.Metrics.ListenAddr)
}

// expandEnv расширяет переменную окружения формата ${VAR:default}
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if key, defaultVal, ok := strings.Cut(content, ":"); ok {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultVal
	}

	// Без значения по умолчанию
	return os.Getenv(content)
}

// expandHome расширяет ~ в пути
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

package config

import "time"

// Config представляет корневую конфигурацию taskpool
type Config struct {
	Pool    PoolConfig    `toml:"pool" yaml:"pool"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	Feeder  FeederConfig  `toml:"feeder" yaml:"feeder"`
}

// PoolConfig представляет конфигурацию executor
type PoolConfig struct {
	Workers        int    `toml:"workers" yaml:"workers"`
	QueueCapacity  int    `toml:"queue_capacity" yaml:"queue_capacity"`
	AutoStart      bool   `toml:"auto_start" yaml:"auto_start"`
	ShutdownPolicy string `toml:"shutdown_policy" yaml:"shutdown_policy"` // cancel, abandon
}

// LoggingConfig представляет конфигурацию логирования
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}

// MetricsConfig представляет конфигурацию Prometheus метрик
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled" yaml:"enabled"`
	Namespace  string `toml:"namespace" yaml:"namespace"`
	ListenAddr string `toml:"listen_addr" yaml:"listen_addr"`
}

// FeederConfig представляет конфигурацию периодической подачи задач
type FeederConfig struct {
	Count        int           `toml:"count" yaml:"count"`
	Interval     time.Duration `toml:"interval" yaml:"interval"`
	TaskDuration time.Duration `toml:"task_duration" yaml:"task_duration"`
}

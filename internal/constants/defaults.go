// Package constants holds the bounds and defaults shared by the executor,
// configuration and CLI packages.
package constants

import "time"

// Executor sizing bounds. Worker count and queue capacity are clamped into
// [MinSize, Max*] so a misconfigured caller cannot exhaust resources.
const (
	MinSize          = 1
	MaxPoolSize      = 10
	MaxQueueCapacity = 10
)

// Executor defaults applied when configuration leaves a value unset.
const (
	DefaultPoolSize       = 2
	DefaultQueueCapacity  = 2
	DefaultShutdownPolicy = "cancel"
)

// Feeder defaults: one submission every two seconds, each task running for
// three and a half ticks so the executor saturates.
const (
	DefaultFeedCount        = 20
	DefaultFeedInterval     = 2 * time.Second
	DefaultFeedTaskDuration = 7 * time.Second
)

// Metrics defaults.
const (
	DefaultMetricsNamespace = "taskpool"
	DefaultMetricsPath      = "/metrics"
)

// DefaultVersion is the default version of the application
const DefaultVersion = "0.1.0-dev"

// DefaultBuildTime is the default build time when not provided at build time
const DefaultBuildTime = "unknown"

// DefaultGitCommit is the default git commit hash when not provided at build time
const DefaultGitCommit = "unknown"

// DefaultGoVersion is the default Go version when not provided at build time
const DefaultGoVersion = "unknown"

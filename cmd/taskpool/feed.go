package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aatumaykin/taskpool/internal/constants"
	"github.com/aatumaykin/taskpool/internal/feeder"
	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/aatumaykin/taskpool/internal/workers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	feedCount        int
	feedInterval     time.Duration
	feedSchedule     string
	feedTaskDuration time.Duration
	feedMetricsAddr  string
)

// feedCmd represents the feed command
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Drive the executor at a fixed rate",
	Long: `Submit one sleeping task per tick until count tasks have been offered,
then wait for the accepted ones to finish and print a per-tick report.
Tasks that outlast the tick saturate the executor and get rejected.

With --metrics-addr the executor's Prometheus metrics are served on
/metrics while the feed runs.`,
	RunE: feedHandler,
}

func feedHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Feeder.Count = feedCount
	}
	if flags.Changed("interval") {
		cfg.Feeder.Interval = feedInterval
	}
	if flags.Changed("task-duration") {
		cfg.Feeder.TaskDuration = feedTaskDuration
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.ListenAddr = feedMetricsAddr
	}

	log, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg *prometheus.Registry
	if cfg.Metrics.Enabled || cfg.Metrics.ListenAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
	}

	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	execCfg, err := executorConfig(cfg, registerer)
	if err != nil {
		return err
	}
	pool := workers.NewPool(execCfg, log)
	defer func() {
		if err := pool.Stop(); err != nil && !errors.Is(err, workers.ErrPoolStopped) {
			log.Error("Failed to stop executor", err)
		}
	}()

	if reg != nil && cfg.Metrics.ListenAddr != "" {
		shutdown, err := serveMetrics(cmd.OutOrStdout(), cfg.Metrics.ListenAddr, reg, log)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	f, err := feeder.New(pool, feeder.Config{
		Count:        cfg.Feeder.Count,
		Interval:     cfg.Feeder.Interval,
		Schedule:     feedSchedule,
		TaskDuration: cfg.Feeder.TaskDuration,
	}, log)
	if err != nil {
		return err
	}

	report, runErr := f.Run(ctx)
	printReport(cmd.OutOrStdout(), report)

	if err := pool.Stop(); err != nil {
		log.Error("Failed to stop executor", err)
	}
	printPoolMetrics(cmd.OutOrStdout(), pool.Metrics())

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// serveMetrics starts a /metrics endpoint for reg on addr. The returned func
// shuts the server down.
func serveMetrics(out io.Writer, addr string, reg *prometheus.Registry, log *logger.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(constants.DefaultMetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", err)
		}
	}()

	fmt.Fprintf(out, "metrics: http://%s%s\n", ln.Addr(), constants.DefaultMetricsPath)
	log.Info("Metrics server started", logger.Field{Key: "addr", Value: ln.Addr().String()})

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shut down metrics server", err)
		}
	}, nil
}

func printReport(out io.Writer, report feeder.Report) {
	for _, tick := range report.Ticks {
		if tick.Accepted {
			fmt.Fprintf(out, "#%-3d accepted  queue=%d  %s\n", tick.Seq, tick.QueueSize, tick.TaskID)
		} else {
			fmt.Fprintf(out, "#%-3d rejected  %s\n", tick.Seq, tick.Reason)
		}
	}
	fmt.Fprintf(out, "accepted: %d  rejected: %d  completed: %d  failed: %d\n",
		report.Accepted, report.Rejected, report.Completed, report.Failed)
}

func printPoolMetrics(out io.Writer, m workers.PoolMetrics) {
	fmt.Fprintf(out, "executor: submitted=%d rejected=%d completed=%d failed=%d abandoned=%d\n",
		m.TasksSubmitted, m.TasksRejected, m.TasksCompleted, m.TasksFailed, m.TasksAbandoned)
}

func init() {
	feedCmd.Flags().IntVar(&feedCount, "count", constants.DefaultFeedCount, "Number of tasks to submit")
	feedCmd.Flags().DurationVar(&feedInterval, "interval", constants.DefaultFeedInterval, "Time between submissions")
	feedCmd.Flags().StringVar(&feedSchedule, "schedule", "", "Cron expression used instead of --interval")
	feedCmd.Flags().DurationVar(&feedTaskDuration, "task-duration", constants.DefaultFeedTaskDuration, "How long each task runs")
	feedCmd.Flags().StringVar(&feedMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while feeding")
}

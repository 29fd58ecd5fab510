package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aatumaykin/taskpool/internal/fanout"
	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/spf13/cobra"
)

var (
	invokeWorkers int
	invokeQueue   int
	invokeDelay   time.Duration
)

// invokeCmd represents the invoke command
var invokeCmd = &cobra.Command{
	Use:   "invoke [ints...]",
	Short: "Square integers in parallel through the executor",
	Long: `Submit one task per integer argument, each squaring its input, and
print the results in input order. Inputs refused by a full queue are dropped
from the result, so a small queue with many inputs shows fewer results than
inputs. Without arguments the integers 1 to 10 are used.`,
	RunE: invokeHandler,
}

func invokeHandler(cmd *cobra.Command, args []string) error {
	inputs, err := parseInts(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Pool.Workers = invokeWorkers
	}
	if cmd.Flags().Changed("queue") {
		cfg.Pool.QueueCapacity = invokeQueue
	}

	log, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	execCfg, err := executorConfig(cfg, nil)
	if err != nil {
		return err
	}

	m, err := fanout.New(execCfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Error("Failed to stop executor", err)
		}
	}()

	log.Info("Invoking",
		logger.Field{Key: "inputs", Value: len(inputs)},
		logger.Field{Key: "workers", Value: m.Executor().WorkerCount()},
		logger.Field{Key: "queue_capacity", Value: m.Executor().QueueCapacity()})

	delay := invokeDelay
	results := fanout.ParallelInvoke(m, inputs, func(x int) int {
		if delay > 0 {
			time.Sleep(delay)
		}
		return x * x
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "results: %v\n", results)
	fmt.Fprintf(out, "dropped: %d of %d\n", len(inputs)-len(results), len(inputs))
	return nil
}

func parseInts(args []string) ([]int, error) {
	if len(args) == 0 {
		inputs := make([]int, 10)
		for i := range inputs {
			inputs[i] = i + 1
		}
		return inputs, nil
	}

	inputs := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", arg, err)
		}
		inputs = append(inputs, n)
	}
	return inputs, nil
}

func init() {
	invokeCmd.Flags().IntVarP(&invokeWorkers, "workers", "w", 0, "Worker count (overrides pool.workers)")
	invokeCmd.Flags().IntVarP(&invokeQueue, "queue", "q", 0, "Queue capacity (overrides pool.queue_capacity)")
	invokeCmd.Flags().DurationVar(&invokeDelay, "delay", 0, "Sleep inside each task before squaring")
}

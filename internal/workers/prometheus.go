package workers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusAbandoned = "abandoned"
)

// PrometheusMetrics exports executor activity as Prometheus collectors.
type PrometheusMetrics struct {
	registry      prometheus.Registerer
	tasksTotal    *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
	rejections    *prometheus.CounterVec
	queueLength   prometheus.Gauge
	activeWorkers prometheus.Gauge
}

// InitPrometheusMetrics creates the executor collectors and registers them on
// reg. A nil reg means prometheus.DefaultRegisterer.
func InitPrometheusMetrics(namespace string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{
		registry: reg,
		tasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_total",
				Help:      "Total number of finished or abandoned tasks",
			},
			[]string{"status"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "task_duration_seconds",
				Help:      "Duration of task execution on a worker",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
			[]string{"status"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Submissions refused by admission control",
			},
			[]string{"reason"},
		),
		queueLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_length",
				Help:      "Number of tasks waiting in the queue",
			},
		),
		activeWorkers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_workers",
				Help:      "Number of workers currently executing a task",
			},
		),
	}

	reg.MustRegister(
		m.tasksTotal,
		m.taskDuration,
		m.rejections,
		m.queueLength,
		m.activeWorkers,
	)

	return m
}

func (m *PrometheusMetrics) RecordTask(status string, duration time.Duration) {
	m.tasksTotal.WithLabelValues(status).Inc()
	m.taskDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordAbandoned(n int) {
	m.tasksTotal.WithLabelValues(statusAbandoned).Add(float64(n))
}

func (m *PrometheusMetrics) RecordRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) SetQueueLength(n int) {
	m.queueLength.Set(float64(n))
}

func (m *PrometheusMetrics) SetActiveWorkers(n int64) {
	m.activeWorkers.Set(float64(n))
}

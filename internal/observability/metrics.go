package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "created_total",
		Help:      "Workouts accepted by the factory, by type.",
	}, []string{"type"})
	validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "validation_failures_total",
		Help:      "Form submissions refused by the factory.",
	})
	logSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "log",
		Name:      "workouts",
		Help:      "Number of workouts currently held in the log.",
	})
	persistDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mapty",
		Subsystem: "log",
		Name:      "persist_duration_seconds",
		Help:      "Time spent writing the log blob.",
		Buckets:   prometheus.DefBuckets,
	})
	persistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "log",
		Name:      "persist_failures_total",
		Help:      "Log blob writes that returned an error.",
	})
	lastPersist = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "log",
		Name:      "last_persist_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful blob write.",
	})
)

func init() {
	prometheus.MustRegister(workoutsCreated, validationFailures, logSize, persistDuration, persistFailures, lastPersist)
}

// RecordWorkoutCreated counts a workout built by the factory.
func RecordWorkoutCreated(workoutType string) {
	workoutsCreated.WithLabelValues(workoutType).Inc()
}

func RecordValidationFailure() {
	validationFailures.Inc()
}

// SetLogSize tracks the number of workouts in memory.
func SetLogSize(n int) {
	logSize.Set(float64(n))
}

// ObservePersist records one blob write that started at start.
func ObservePersist(start time.Time, err error) {
	persistDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		persistFailures.Inc()
		return
	}
	lastPersist.Set(float64(time.Now().Unix()))
}

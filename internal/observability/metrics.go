package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsStored = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "store",
		Name:      "workouts",
		Help:      "Number of workouts currently held in the store.",
	})
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "store",
		Name:      "workouts_created_total",
		Help:      "Workouts created, by type.",
	}, []string{"type"})
	workoutsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "store",
		Name:      "workouts_deleted_total",
		Help:      "Workouts deleted.",
	})
	validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "form",
		Name:      "validation_failures_total",
		Help:      "Form submissions rejected by validation.",
	})
	storageFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "storage",
		Name:      "failures_total",
		Help:      "Durable slot operations that failed, by operation.",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(workoutsStored, workoutsCreated, workoutsDeleted, validationFailures, storageFailures)
}

// SetWorkoutsStored records the current store size.
func SetWorkoutsStored(n int) {
	workoutsStored.Set(float64(n))
}

// RecordWorkoutCreated counts a new workout of the given type.
func RecordWorkoutCreated(kind string) {
	workoutsCreated.WithLabelValues(kind).Inc()
}

// RecordWorkoutDeleted counts a deletion.
func RecordWorkoutDeleted() {
	workoutsDeleted.Inc()
}

// RecordValidationFailure counts a rejected form submission.
func RecordValidationFailure() {
	validationFailures.Inc()
}

// RecordStorageFailure counts a failed slot operation ("load", "save", "clear").
func RecordStorageFailure(op string) {
	storageFailures.WithLabelValues(op).Inc()
}

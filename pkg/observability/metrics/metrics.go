// Package metrics exposes prometheus instrumentation for the adaptive
// classifier. Counters are registered once at package init and recorded
// through small helper functions so call sites stay terse.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classifier pass labels.
const (
	PassBaseline = "baseline"
	PassCharNorm = "charnorm"
	PassAmbig    = "ambig"
)

var (
	adaptiveMatcherCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_adaptive_matcher_calls_total",
		Help: "Total number of adaptive classification requests.",
	})

	classifierPassCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_pass_calls_total",
		Help: "Number of matcher passes run, by pass type.",
	}, []string{"pass"})

	classesTried = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_classes_tried_total",
		Help: "Number of candidate classes scored by the matching primitive, by pass type.",
	}, []string{"pass"})

	classesOutput = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_classes_output_total",
		Help: "Total number of candidate classes returned to callers.",
	})

	classifierLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classifier_pass_duration_seconds",
		Help:    "Latency of individual classifier passes.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12),
	}, []string{"pass"})

	charsAdapted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_chars_adapted_total",
		Help: "Number of confirmed characters consumed by the learning engine.",
	})

	adaptationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_adaptation_failures_total",
		Help: "Learning attempts abandoned because per-class capacity was exhausted.",
	})

	configPromotions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_config_promotions_total",
		Help: "Temporary configs promoted to permanent, split by direct promotions and ambiguity-cascade promotions.",
	}, []string{"kind"})
)

// RecordAdaptiveMatcherCall counts one classification request.
func RecordAdaptiveMatcherCall() {
	adaptiveMatcherCalls.Inc()
}

// RecordPassClasses counts one run of a matcher pass and the number of
// classes it scored.
func RecordPassClasses(pass string, numClasses int) {
	classifierPassCalls.WithLabelValues(pass).Inc()
	classesTried.WithLabelValues(pass).Add(float64(numClasses))
}

// RecordClassifierLatency observes the latency of one matcher pass.
func RecordClassifierLatency(pass string, seconds float64) {
	classifierLatency.WithLabelValues(pass).Observe(seconds)
}

// RecordClassesOutput counts candidates returned from one classification.
func RecordClassesOutput(n int) {
	classesOutput.Add(float64(n))
}

// RecordCharAdapted counts one learning-engine invocation.
func RecordCharAdapted() {
	charsAdapted.Inc()
}

// RecordAdaptationFailure counts one abandoned learning attempt.
func RecordAdaptationFailure() {
	adaptationFailures.Inc()
}

// RecordPromotion counts one temp-to-permanent config promotion. cascade is
// true when the promotion was triggered through the reverse ambiguity group
// rather than directly by the learned character.
func RecordPromotion(cascade bool) {
	kind := "direct"
	if cascade {
		kind = "cascade"
	}
	configPromotions.WithLabelValues(kind).Inc()
}

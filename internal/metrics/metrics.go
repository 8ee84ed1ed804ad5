// Package metrics records pipeline outcomes for Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/docmind/constants"
	"github.com/joseph-ayodele/docmind/internal/common"
	"github.com/joseph-ayodele/docmind/internal/entity"
)

const (
	Namespace = "docmind"
	Subsystem = "pipeline"
)

// Pipeline is a core.Observer backed by Prometheus collectors.
type Pipeline struct {
	DocumentsTotal     *prometheus.CounterVec
	StageFailuresTotal *prometheus.CounterVec
	ValidationTotal    *prometheus.CounterVec
	DurationSeconds    *prometheus.HistogramVec
}

// NewPipeline registers the pipeline collectors on reg (default registerer if nil).
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Pipeline{
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "documents_total",
				Help:      "Documents routed, by category and classification method",
			},
			[]string{"category", "method"},
		),
		StageFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "stage_failures_total",
				Help:      "Pipeline failures by stage and error code",
			},
			[]string{"stage", "code"},
		),
		ValidationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "validation_outcomes_total",
				Help:      "Numeric validator outcomes",
			},
			[]string{"outcome"},
		),
		DurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "duration_seconds",
				Help:      "Time from classification to normalized record",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
			[]string{"category"},
		),
	}
}

func (p *Pipeline) ObserveClassification(c entity.Classification) {
	p.DocumentsTotal.WithLabelValues(categoryLabel(c.Category), c.Method).Inc()
}

func (p *Pipeline) ObserveValidation(outcome constants.ValidationOutcome) {
	p.ValidationTotal.WithLabelValues(string(outcome)).Inc()
}

func (p *Pipeline) ObserveFailure(stage string, err error) {
	code := "INTERNAL"
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	p.StageFailuresTotal.WithLabelValues(stage, code).Inc()
}

func (p *Pipeline) ObserveDuration(category constants.Category, d time.Duration) {
	p.DurationSeconds.WithLabelValues(categoryLabel(category)).Observe(d.Seconds())
}

// categoryLabel keeps label cardinality bounded; overrides are free text.
func categoryLabel(c constants.Category) string {
	switch c {
	case constants.Invoice, constants.Contract:
		return string(c)
	default:
		return "other"
	}
}

// Handler serves the metrics gathered by g (default gatherer if nil).
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

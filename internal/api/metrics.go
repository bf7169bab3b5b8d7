package api

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhisek/coursefit/internal/assessment"
)

// Metrics exports assessment and HTTP telemetry to Prometheus.
type Metrics struct {
	assessments     *prometheus.CounterVec
	persistFailures prometheus.Counter
	matchScore      *prometheus.HistogramVec
	discount        prometheus.Histogram
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	scoreBuckets := prometheus.LinearBuckets(10, 10, 10)

	m := &Metrics{
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursefit",
			Name:      "assessments_total",
			Help:      "Finalized assessments by path and best-matching course.",
		}, []string{"path", "best_match"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coursefit",
			Name:      "persist_failures_total",
			Help:      "Finalized assessments that could not be fully persisted.",
		}),
		matchScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursefit",
			Name:      "course_match_percent",
			Help:      "Distribution of course match percentages.",
			Buckets:   scoreBuckets,
		}, []string{"course"}),
		discount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coursefit",
			Name:      "discount_eligibility_percent",
			Help:      "Distribution of discount eligibility percentages.",
			Buckets:   scoreBuckets,
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursefit",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	var err error
	if m.assessments, err = register(reg, m.assessments); err != nil {
		return nil, err
	}
	if m.persistFailures, err = register(reg, m.persistFailures); err != nil {
		return nil, err
	}
	if m.matchScore, err = register(reg, m.matchScore); err != nil {
		return nil, err
	}
	if m.discount, err = register(reg, m.discount); err != nil {
		return nil, err
	}
	if m.requestDuration, err = register(reg, m.requestDuration); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg. When an identical collector is already
// registered, the existing one is returned so observations reach it.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("register api metric: %w", err)
}

// ObserveResult records a finalized assessment.
func (m *Metrics) ObserveResult(r *assessment.Result, persisted bool) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(r.PathID, r.BestMatch).Inc()
	for course, score := range r.CourseMatches {
		m.matchScore.WithLabelValues(course).Observe(float64(score))
	}
	m.discount.Observe(float64(r.DiscountEligibility))
	if !persisted {
		m.persistFailures.Inc()
	}
}

func (m *Metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

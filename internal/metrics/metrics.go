package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "conceptme"

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 15, 30},
		},
		[]string{"method", "route"},
	)

	// ExplanationOutcomes counts pipeline runs by result code ("ok" on success).
	ExplanationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explanation_requests_total",
			Help:      "Explanation generations by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Latency of completion API calls",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40},
		},
	)

	QuizSaveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_save_failures_total",
			Help:      "Generated quizzes that could not be persisted",
		},
	)

	QuizSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_submissions_total",
			Help:      "Quiz submissions by outcome",
		},
		[]string{"outcome"},
	)

	QuizScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quiz_score",
			Help:      "Scores of graded quizzes",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
	)

	initOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ExplanationOutcomes,
			UpstreamDuration,
			QuizSaveFailures,
			QuizSubmissions,
			QuizScores,
		)
	})
}

// Middleware records request count and latency per route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			// Render the error now so the recorded status matches the response.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		RequestCounter.WithLabelValues(c.Method(), route, status).Inc()
		RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return nil
	}
}

// Handler serves the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

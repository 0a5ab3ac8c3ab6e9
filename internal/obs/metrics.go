package obs

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printkiosk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "route", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "printkiosk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	jobsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "printkiosk",
			Subsystem: "workflow",
			Name:      "jobs_created_total",
			Help:      "Print jobs created.",
		},
	)
	paymentsConfirmedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printkiosk",
			Subsystem: "workflow",
			Name:      "payments_confirmed_total",
			Help:      "Payment confirmations by outcome.",
		},
		[]string{"result"},
	)
	otpRedemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printkiosk",
			Subsystem: "workflow",
			Name:      "otp_redemptions_total",
			Help:      "OTP redemption attempts by outcome.",
		},
		[]string{"result"},
	)
	ledgerWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "printkiosk",
			Subsystem: "workflow",
			Name:      "ledger_write_failures_total",
			Help:      "Best-effort ledger writes that failed and need reconciliation.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal, httpRequestDuration,
		jobsCreatedTotal, paymentsConfirmedTotal, otpRedemptionsTotal, ledgerWriteFailuresTotal,
	)
}

// MetricsMiddleware records request count and latency. The route label uses
// gin's route pattern, so id segments stay low-cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, code).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordJobCreated() {
	jobsCreatedTotal.Inc()
}

func RecordPaymentConfirmed(result string) {
	paymentsConfirmedTotal.WithLabelValues(result).Inc()
}

func RecordOTPRedemption(result string) {
	otpRedemptionsTotal.WithLabelValues(result).Inc()
}

func RecordLedgerWriteFailure() {
	ledgerWriteFailuresTotal.Inc()
}

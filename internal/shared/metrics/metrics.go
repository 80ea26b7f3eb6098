package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "go_leave"

var (
	// Registry holds the application collectors. It is separate from the
	// default registry so tests can run without global side effects.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	leaveTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leave",
			Name:      "transitions_total",
			Help:      "Leave request lifecycle transitions by outcome.",
		},
		[]string{"transition", "outcome"},
	)

	notificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "dispatch_failures_total",
			Help:      "Notification dispatch failures swallowed by the dispatcher.",
		},
		[]string{"channel"},
	)

	outboxEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events_total",
			Help:      "Outbox events relayed to Kafka by result.",
		},
		[]string{"result"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mailer",
			Name:      "emails_total",
			Help:      "Emails handled by the consumer by template and result.",
		},
		[]string{"template", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		leaveTransitions,
		notificationFailures,
		outboxEvents,
		emailsSent,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordLeaveTransition(transition string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	leaveTransitions.WithLabelValues(transition, outcome).Inc()
}

func RecordNotificationFailure(channel string) {
	notificationFailures.WithLabelValues(channel).Inc()
}

func RecordOutboxEvent(sent bool) {
	result := "sent"
	if !sent {
		result = "failed"
	}
	outboxEvents.WithLabelValues(result).Inc()
}

func RecordEmail(template string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	emailsSent.WithLabelValues(template, result).Inc()
}

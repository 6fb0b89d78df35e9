package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de negócio
	UserRegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ateleslie_user_registrations_total",
		Help: "Total number of successful registrations",
	})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ateleslie_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	ImagesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ateleslie_images_processed_total",
		Help: "Uploaded images by processing outcome",
	}, []string{"outcome"})

	ImageProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ateleslie_image_processing_seconds",
		Help:    "Time spent producing an original and its thumbnails",
		Buckets: prometheus.DefBuckets,
	})

	NewslettersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ateleslie_newsletters_sent_total",
		Help: "Newsletters dispatched",
	})

	EmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ateleslie_emails_sent_total",
		Help: "Outbound emails by template and outcome",
	}, []string{"template", "outcome"})

	ContactsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ateleslie_contacts_created_total",
		Help: "Contact messages received by type",
	}, []string{"type"})

	// Métricas de infraestrutura
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ateleslie_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ateleslie_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobboard_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_company_registrations_total",
		Help: "Company registration attempts by result",
	}, []string{"result"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_company_logins_total",
		Help: "Company login attempts by result",
	}, []string{"result"})

	jobsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobboard_jobs_posted_total",
		Help: "Jobs created by companies",
	})

	applications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_applications_total",
		Help: "Job application attempts by result",
	}, []string{"result"})

	uploadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobboard_blob_upload_duration_seconds",
		Help:    "Duration of object storage uploads",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "result"})

	webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_webhook_events_total",
		Help: "Identity provider webhook deliveries by type and result",
	}, []string{"type", "result"})

	profileSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobboard_profile_syncs_total",
		Help: "User profile reconciliations with the identity provider",
	}, []string{"source", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveRegistration records a registration attempt
func ObserveRegistration(result string) {
	registrations.WithLabelValues(result).Inc()
}

// ObserveLogin records a login attempt
func ObserveLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

// ObserveJobPosted records a job creation
func ObserveJobPosted() {
	jobsPosted.Inc()
}

// ObserveApplication records an application attempt
func ObserveApplication(result string) {
	applications.WithLabelValues(result).Inc()
}

// ObserveUpload records the duration of a blob upload
func ObserveUpload(kind, result string, duration time.Duration) {
	uploadDuration.WithLabelValues(kind, result).Observe(duration.Seconds())
}

// ObserveWebhookEvent records a webhook delivery
func ObserveWebhookEvent(eventType, result string) {
	webhookEvents.WithLabelValues(eventType, result).Inc()
}

// ObserveProfileSync records a profile reconciliation
func ObserveProfileSync(source, result string) {
	profileSyncs.WithLabelValues(source, result).Inc()
}

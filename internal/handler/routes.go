package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware wraps an http.Handler
type Middleware = func(http.Handler) http.Handler

// Routes groups the handlers and per-route middleware for the API
type Routes struct {
	Company *CompanyHandler
	Job     *JobHandler
	User    *UserHandler
	Webhook *WebhookHandler
	Health  *HealthHandler

	CompanyAuth Middleware
	SeekerAuth  Middleware
	LoginLimit  Middleware
}

// NewMux builds the route table. The same table serves the binary and the
// end-to-end tests.
func (rt Routes) NewMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Public job views
	mux.HandleFunc("GET /jobs", rt.Job.List)
	mux.HandleFunc("GET /jobs/{id}", rt.Job.Get)

	// Company account and hiring flow. The register endpoint shares the
	// login limiter since both accept credentials.
	mux.Handle("POST /company/register", rt.LoginLimit(http.HandlerFunc(rt.Company.Register)))
	mux.Handle("POST /company/login", rt.LoginLimit(http.HandlerFunc(rt.Company.Login)))
	mux.Handle("GET /company/company", rt.CompanyAuth(http.HandlerFunc(rt.Company.Profile)))
	mux.Handle("POST /company/post-job", rt.CompanyAuth(http.HandlerFunc(rt.Company.PostJob)))
	mux.Handle("GET /company/list-jobs", rt.CompanyAuth(http.HandlerFunc(rt.Company.ListJobs)))
	mux.Handle("GET /company/applicants", rt.CompanyAuth(http.HandlerFunc(rt.Company.Applicants)))
	mux.Handle("POST /company/change-status", rt.CompanyAuth(http.HandlerFunc(rt.Company.ChangeStatus)))
	// Route spelling is load-bearing: deployed clients call it this way.
	mux.Handle("POST /company/change-visiblity", rt.CompanyAuth(http.HandlerFunc(rt.Company.ChangeVisibility)))

	// Seeker flow, authenticated against the external identity provider
	mux.Handle("GET /users/user", rt.SeekerAuth(http.HandlerFunc(rt.User.Profile)))
	mux.Handle("POST /users/apply", rt.SeekerAuth(http.HandlerFunc(rt.User.Apply)))
	mux.Handle("GET /users/applications", rt.SeekerAuth(http.HandlerFunc(rt.User.Applications)))
	mux.Handle("POST /users/update-resume", rt.SeekerAuth(http.HandlerFunc(rt.User.UpdateResume)))

	// Identity-provider lifecycle events
	mux.HandleFunc("POST /webhooks", rt.Webhook.Receive)

	// Operational endpoints
	mux.HandleFunc("GET /healthz", rt.Health.Health)
	mux.HandleFunc("GET /readyz", rt.Health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// Chain applies middleware outermost-first
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

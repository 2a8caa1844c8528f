package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hel", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hel", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	PackageViews = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "hel", Name: "package_views_total", Help: "Number of package document reads."},
	)
	PatchResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hel", Name: "patch_results_total", Help: "PATCH outcomes by resource and result (ok or error kind)."},
		[]string{"resource", "result"},
	)
	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hel", Name: "search_requests_total", Help: "List requests by evaluation mode (store or memory)."},
		[]string{"mode"},
	)
	AuthActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hel", Name: "auth_actions_total", Help: "Authentication actions by action and result."},
		[]string{"action", "result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(PackageViews)
	reg.MustRegister(PatchResults)
	reg.MustRegister(SearchRequests)
	reg.MustRegister(AuthActions)
}

// Package observability exposes the application's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthFailures counts rejected requests at the authentication gate by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_auth_failures_total",
		Help: "Total number of requests rejected by the authentication gate",
	}, []string{"reason"})

	// ImageUploads counts registration image uploads by outcome.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_image_uploads_total",
		Help: "Total number of profile image uploads by outcome",
	}, []string{"outcome"})

	// CacheLookups counts profile cache lookups by result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_cache_lookups_total",
		Help: "Total number of profile cache lookups by result",
	}, []string{"result"})
)

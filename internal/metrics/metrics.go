// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RedirectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarks_redirects_total",
		Help: "Total short-code resolution attempts.",
	}, []string{"status"})

	RedirectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookmarks_redirect_duration_seconds",
		Help:    "Time from request receipt to redirect response.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})

	BookmarksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarks_created_total",
		Help: "Bookmarks successfully created.",
	})

	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarks_auth_failures_total",
		Help: "Rejected authentication attempts by reason.",
	}, []string{"reason"})

	BookmarksStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookmarks_stored",
		Help: "Total number of bookmarks in the database.",
	})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookmarks_users_total",
		Help: "Total number of registered users in the database.",
	})
)

package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_sessions_created_total",
			Help: "Total number of storefront sessions started",
		},
	)

	cartActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_actions_total",
			Help: "Total number of cart actions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	reviewSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_review_submissions_total",
			Help: "Total number of review form submissions by outcome",
		},
		[]string{"outcome"},
	)
)

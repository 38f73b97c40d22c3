package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level collectors; promauto registers them once on the default registry.
var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convocatorias_submissions_total",
		Help: "Complete application submissions by result",
	}, []string{"result"})

	ApplicationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convocatorias_applications_created_total",
		Help: "Applications created against an offering",
	})

	OfferingRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convocatorias_offering_rejections_total",
		Help: "Per-offering soft failures during submission",
	}, []string{"reason"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convocatorias_status_transitions_total",
		Help: "Application status changes by target status",
	}, []string{"estado"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convocatorias_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "code"})
)

package prometheus

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "linkdesk"

// Redirect outcomes.
const (
	RedirectFound    = "found"
	RedirectNotFound = "not_found"
	RedirectError    = "error"
)

// Metrics holds the application collectors.
type Metrics struct {
	HTTPRequests    *prom.CounterVec
	HTTPDuration    *prom.HistogramVec
	Redirects       *prom.CounterVec
	URLsCreated     prom.Counter
	ClicksPublished *prom.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prom.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route"}),
		Redirects: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "redirects_total",
			Help:      "Short-code lookups by outcome.",
		}, []string{"result"}),
		URLsCreated: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "urls_created_total",
			Help:      "Short URLs created.",
		}),
		ClicksPublished: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "click_events_published_total",
			Help:      "Click events sent to JetStream by outcome.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.Redirects, m.URLsCreated, m.ClicksPublished)
	}
	return m
}

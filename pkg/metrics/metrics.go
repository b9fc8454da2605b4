package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector aggregates the prometheus metrics exposed on /metrics.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	webhookEventsTotal *prometheus.CounterVec
	gatewayCallsTotal  *prometheus.CounterVec

	ordersCreatedTotal *prometheus.CounterVec
}

var (
	global *Collector
	once   sync.Once
)

// GetGlobalCollector returns the process-wide collector, creating it on
// first use so tests can run without double registration.
func GetGlobalCollector() *Collector {
	once.Do(func() {
		global = newCollector()
	})
	return global
}

func newCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		webhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashfree_webhook_events_total",
				Help: "Webhook deliveries received, labelled by event type and outcome",
			},
			[]string{"type", "outcome"},
		),
		gatewayCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashfree_gateway_calls_total",
				Help: "Outbound Cashfree API calls by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		ordersCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Orders created, labelled by payment method",
			},
			[]string{"payment_method"},
		),
	}
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, endpoint, status string, seconds float64) {
	c.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordWebhookEvent records one inbound webhook delivery.
func (c *Collector) RecordWebhookEvent(eventType, outcome string) {
	c.webhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordGatewayCall records one outbound gateway call.
func (c *Collector) RecordGatewayCall(endpoint, result string) {
	c.gatewayCallsTotal.WithLabelValues(endpoint, result).Inc()
}

// RecordOrderCreated records a successfully created order.
func (c *Collector) RecordOrderCreated(paymentMethod string) {
	c.ordersCreatedTotal.WithLabelValues(paymentMethod).Inc()
}

package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_http_requests_total",
			Help: "Total number of HTTP requests processed by the relay.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_ws_events_total",
			Help: "Total number of websocket events by type.",
		},
		[]string{"event"},
	)
	wsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_ws_dropped_events_total",
			Help: "Outbound events dropped because a client channel was full or gone.",
		},
	)
	openRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_open_rooms",
			Help: "Number of rooms currently held by the registry.",
		},
	)
	chatMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_chat_messages_total",
			Help: "Chat messages accepted and broadcast.",
		},
	)
	rateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_rate_limited_sends_total",
			Help: "Chat messages rejected by the sliding-window rate limiter.",
		},
	)
	signalsRelayedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_signals_relayed_total",
			Help: "WebRTC signaling payloads forwarded, by event type.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		wsDroppedTotal,
		openRooms,
		chatMessagesTotal,
		rateLimitedTotal,
		signalsRelayedTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncWSDropped() {
	wsDroppedTotal.Inc()
}

func SetOpenRooms(n int) {
	openRooms.Set(float64(n))
}

func IncChatMessage() {
	chatMessagesTotal.Inc()
}

func IncRateLimited() {
	rateLimitedTotal.Inc()
}

func IncSignalRelayed(event string) {
	signalsRelayedTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

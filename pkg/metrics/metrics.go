package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups the client's prometheus metrics. A nil *Collectors is
// valid and records nothing.
type Collectors struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	UsedWeight        prometheus.Gauge
	OrderCount        *prometheus.GaugeVec
	BreakerState      prometheus.Gauge
	StreamConnections prometheus.Gauge
	StreamEvents      *prometheus.CounterVec
}

func New() *Collectors {
	return &Collectors{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binance_api_requests_total",
				Help: "Total number of Binance API requests",
			},
			[]string{"endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "binance_api_request_duration_seconds",
				Help:    "Duration of Binance API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		UsedWeight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "binance_api_used_weight_1m",
				Help: "Request weight used in the current minute as reported by the exchange",
			},
		),
		OrderCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "binance_api_order_count",
				Help: "Orders placed in the current interval as reported by the exchange",
			},
			[]string{"interval"},
		),
		BreakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "binance_api_circuit_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
			},
		),
		StreamConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "binance_user_stream_connections",
				Help: "Number of connected user data streams",
			},
		),
		StreamEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binance_user_stream_events_total",
				Help: "User data stream events received by type",
			},
			[]string{"event"},
		),
	}
}

// Register adds every collector to reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.RequestsTotal,
		c.RequestDuration,
		c.UsedWeight,
		c.OrderCount,
		c.BreakerState,
		c.StreamConnections,
		c.StreamEvents,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRequest records one finished REST call. status is the HTTP status,
// or 0 when no response arrived.
func (c *Collectors) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.RequestsTotal.WithLabelValues(endpoint, label).Inc()
	c.RequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveHeaders reads the exchange usage headers, X-MBX-USED-WEIGHT-1M and
// X-MBX-ORDER-COUNT-*.
func (c *Collectors) ObserveHeaders(get func(string) string) {
	if c == nil {
		return
	}
	if v, err := strconv.ParseFloat(get("X-MBX-USED-WEIGHT-1M"), 64); err == nil {
		c.UsedWeight.Set(v)
	}
	for _, interval := range []string{"10S", "1D"} {
		if v, err := strconv.ParseFloat(get("X-MBX-ORDER-COUNT-"+interval), 64); err == nil {
			c.OrderCount.WithLabelValues(interval).Set(v)
		}
	}
}

func (c *Collectors) SetBreakerState(state int) {
	if c == nil {
		return
	}
	c.BreakerState.Set(float64(state))
}

func (c *Collectors) StreamConnected(delta float64) {
	if c == nil {
		return
	}
	c.StreamConnections.Add(delta)
}

func (c *Collectors) StreamEvent(event string) {
	if c == nil {
		return
	}
	c.StreamEvents.WithLabelValues(event).Inc()
}

package prometheus

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ussd_requests_total",
			Help: "Count of processed USSD requests",
		},
		[]string{"path", "kind"}, // kind: con, end
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ussd_request_duration_seconds",
			Help:    "Time taken to process a USSD request",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"path"},
	)
	RejectedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ussd_rejected_requests_total",
			Help: "Count of requests refused before dispatch",
		},
		[]string{"reason"}, // origin, phone, session, rate_limit
	)

	BridgeCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ussd_bridge_calls_total",
			Help: "Count of calls to the investment engine and SMS sender",
		},
		[]string{"op", "status"},
	)
)

func Init() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDuration,
		RejectedRequests,
		BridgeCalls,
	)
}

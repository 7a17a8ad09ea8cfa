package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	DepositsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deposits_created_total",
			Help: "Deposit records created",
		},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Provider webhook callbacks by outcome",
		},
		[]string{"outcome"},
	)

	NoticesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notices_sent_total",
			Help: "User notices dispatched",
		},
	)
)

func Init() {
	prometheus.MustRegister(DepositsCreated)
	prometheus.MustRegister(WebhookEvents)
	prometheus.MustRegister(NoticesSent)
}

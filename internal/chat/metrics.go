package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedMembers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_members",
		Help: "Number of currently admitted room members",
	})

	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_published_total",
		Help: "Room events published to the bus by kind",
	}, []string{"kind"})

	RejectedNames = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_rejected_names_total",
		Help: "Admission attempts rejected as invalid or duplicate",
	})

	LaggedSessions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_lagged_sessions_total",
		Help: "Sessions dropped for falling behind the event bus",
	})
)

func init() {
	prometheus.MustRegister(ConnectedMembers)
	prometheus.MustRegister(EventsPublished)
	prometheus.MustRegister(RejectedNames)
	prometheus.MustRegister(LaggedSessions)
}

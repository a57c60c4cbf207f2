package tcp

import "github.com/prometheus/client_golang/prometheus"

var AcceptedConnections = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tcp_accepted_connections_total",
	Help: "Total connections accepted, per service",
}, []string{"service"})

func init() {
	prometheus.MustRegister(AcceptedConnections)
}

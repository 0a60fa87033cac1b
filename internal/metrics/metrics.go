// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PacketsHandled counts inbound bancho packets by packet name.
	PacketsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hikari_packets_handled_total",
		Help: "Inbound bancho packets handled, by packet name.",
	}, []string{"packet"})

	// Logins counts successful logins.
	Logins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hikari_logins_total",
		Help: "Successful bancho logins.",
	})

	// LoginsRefused counts refused login attempts.
	LoginsRefused = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hikari_logins_refused_total",
		Help: "Refused bancho login attempts.",
	})

	// PubsubMessages counts consumed bus messages by topic.
	PubsubMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hikari_pubsub_messages_total",
		Help: "Consumed pub/sub messages, by topic.",
	}, []string{"topic"})
)

// RegisterSessionGauges registers gauges that read live registry sizes.
// Called once from main after the server is built.
func RegisterSessionGauges(online, matches func() float64) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hikari_online_users",
		Help: "Live sessions, bot included.",
	}, online))

	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hikari_active_matches",
		Help: "Multiplayer matches currently allocated.",
	}, matches))
}

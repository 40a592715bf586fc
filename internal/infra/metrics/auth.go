package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	authSignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signups_total",
			Help: "Sign-up attempts by outcome (ok/conflict/invalid/error).",
		},
		[]string{"status"},
	)

	authSigninsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signins_total",
			Help: "Sign-in attempts by outcome (ok/unauthorized/error).",
		},
		[]string{"status"},
	)
)

func init() {
	register(authSignupsTotal, authSigninsTotal)
}

func IncSignup(status string) { authSignupsTotal.WithLabelValues(status).Inc() }
func IncSignin(status string) { authSigninsTotal.WithLabelValues(status).Inc() }

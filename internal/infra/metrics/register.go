package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector families live next to the code they instrument: http.go carries
// the request counter and latency histogram, auth.go the sign-up/sign-in
// outcome counters, promo.go the promo operation counter. Each file enqueues
// its collectors from init; the app calls MustRegister once at startup.

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister publishes every enqueued collector to the default registry.
// Calling it again is a no-op, so tests and main can both invoke it safely.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pending...)
	})
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

var promoOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "promo_operations_total",
		Help: "Promo catalog operations by op (create/list/get/update/stat) and outcome.",
	},
	[]string{"op", "status"},
)

func init() {
	register(promoOperationsTotal)
}

func IncPromoOp(op, status string) { promoOperationsTotal.WithLabelValues(op, status).Inc() }

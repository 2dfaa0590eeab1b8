// Package metrics defines and registers all custom Prometheus metrics for
// the books API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "books"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "rejected", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// CreatedTotal counts successfully created books.
var CreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of books created.",
	},
)

// DeletedTotal counts successfully deleted books.
var DeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of books deleted.",
	},
)

// DuplicateNameRejectionsTotal counts writes rejected by the uniqueness guard.
// Label:
//   - operation: "create" or "update"
var DuplicateNameRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_name_rejections_total",
		Help:      "Total number of create/update requests rejected because the name was taken.",
	},
	[]string{"operation"},
)

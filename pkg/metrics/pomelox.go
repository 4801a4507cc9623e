package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StatsRequestsTotal counts activity stats aggregations by outcome
	// (ok, invalid_user, upstream_code, no_data, fetch_error, store_error).
	StatsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pomelox",
			Name:      "stats_requests_total",
			Help:      "Total number of activity stats aggregations",
		},
		[]string{"result"},
	)

	// UpstreamFetchAttemptsTotal counts calls to the PomeloX API, retries included.
	UpstreamFetchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pomelox",
			Name:      "upstream_fetch_attempts_total",
			Help:      "Total number of upstream activity list requests",
		},
		[]string{"outcome"},
	)

	// LocalStateWritesTotal counts bookmark / review mutations.
	LocalStateWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pomelox",
			Name:      "local_state_writes_total",
			Help:      "Total number of bookmark and review state writes",
		},
		[]string{"op"},
	)

	// IdentityDecodeTotal counts identity token decodes by result.
	IdentityDecodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pomelox",
			Name:      "identity_decode_total",
			Help:      "Total number of identity token decodes",
		},
		[]string{"result"},
	)
)

// SetupPomeloxMetrics registers the service collectors on registry.
// Registering twice on the same registry is a no-op.
func SetupPomeloxMetrics(registry *prometheus.Registry) {
	for _, c := range []prometheus.Collector{
		StatsRequestsTotal,
		UpstreamFetchAttemptsTotal,
		LocalStateWritesTotal,
		IdentityDecodeTotal,
	} {
		if err := registry.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
}

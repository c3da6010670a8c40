// Package promhook exports cache hook events as Prometheus counters.
//
// Metrics:
//   - <ns>_cache_backend_errors_total{op}: swallowed backing/version store faults
//   - <ns>_cache_self_heals_total{reason}: entries deleted on read
//   - <ns>_cache_set_rejected_total: provider write rejections (pressure)
//   - <ns>_cache_remove_outages_total: Remove calls where the version bump failed
//   - <ns>_cache_pattern_invalidations_total: RemoveByPattern calls
//   - <ns>_cache_pattern_matches_total: keys removed by pattern
package promhook

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/storecore/cache"
)

type Hooks struct {
	backendErrors *prometheus.CounterVec
	selfHeals     *prometheus.CounterVec
	setRejected   prometheus.Counter
	removeOutages prometheus.Counter
	patternCalls  prometheus.Counter
	patternKeys   prometheus.Counter
}

var _ cache.Hooks = (*Hooks)(nil)

// New registers the counters on reg and returns the hook set.
// namespace becomes the metric name prefix (e.g. "storecore").
func New(reg prometheus.Registerer, namespace string) *Hooks {
	h := &Hooks{
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_backend_errors_total",
			Help:      "Backing-store and version-store faults swallowed by the cache.",
		}, []string{"op"}),
		selfHeals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_self_heals_total",
			Help:      "Cache entries deleted on read.",
		}, []string{"reason"}),
		setRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_set_rejected_total",
			Help:      "Provider writes rejected under pressure.",
		}),
		removeOutages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_remove_outages_total",
			Help:      "Remove calls whose version bump failed (entry live until TTL).",
		}),
		patternCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_pattern_invalidations_total",
			Help:      "RemoveByPattern calls.",
		}),
		patternKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_pattern_matches_total",
			Help:      "Keys removed by pattern invalidation.",
		}),
	}
	reg.MustRegister(
		h.backendErrors, h.selfHeals, h.setRejected,
		h.removeOutages, h.patternCalls, h.patternKeys,
	)
	return h
}

func (h *Hooks) BackendError(op, _ string, _ error) {
	h.backendErrors.WithLabelValues(op).Inc()
}

func (h *Hooks) SelfHeal(_ string, reason string) {
	h.selfHeals.WithLabelValues(reason).Inc()
}

func (h *Hooks) SetRejected(string) { h.setRejected.Inc() }

func (h *Hooks) RemoveOutage(string, *cache.RemoveError) { h.removeOutages.Inc() }

func (h *Hooks) PatternInvalidated(_ string, matched int) {
	h.patternCalls.Inc()
	h.patternKeys.Add(float64(matched))
}

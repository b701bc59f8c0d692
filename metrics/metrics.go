// Package metrics holds Prometheus instruments shared across the module.
// All collectors are registered with the global registry, so importing this
// package in the embedding application is enough to expose them on its
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StatementsCompiledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datagate_statements_compiled_total",
			Help: "Cumulative number of statements compiled successfully.",
		})

	CompileErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datagate_compile_errors_total",
			Help: "Cumulative number of statement compilation failures.",
		})

	AccessPermittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datagate_access_permitted_total",
			Help: "Cumulative number of permitted access decisions.",
		})

	AccessDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datagate_access_denied_total",
			Help: "Cumulative number of denied access decisions.",
		})

	BatchRollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datagate_batch_rollbacks_total",
			Help: "Cumulative number of batch writes rolled back.",
		})

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datagate_cache_hits_total",
			Help: "Cumulative number of read-result cache hits.",
		})

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datagate_cache_misses_total",
			Help: "Cumulative number of read-result cache misses.",
		})

	CacheInvalidationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datagate_cache_invalidations_total",
			Help: "Cumulative number of table key-space invalidations.",
		})
)

func init() {
	prometheus.MustRegister(
		StatementsCompiledTotal,
		CompileErrorsTotal,
		AccessPermittedTotal,
		AccessDeniedTotal,
		BatchRollbacksTotal,
		CacheHitsTotal,
		CacheMissesTotal,
		CacheInvalidationsTotal,
	)
}

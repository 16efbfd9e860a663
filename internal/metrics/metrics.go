package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_events_total",
			Help: "Total events persisted to the event store, by kind",
		},
		[]string{"kind"},
	)

	QuotaRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_quota_rejections_total",
			Help: "Total ingestion requests rejected by the quota gate, by kind",
		},
		[]string{"kind"},
	)

	StoreInsertFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_store_insert_failures_total",
			Help: "Total event store insert failures, by table",
		},
		[]string{"table"},
	)

	NotifyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_notify_failures_total",
			Help: "Total swallowed realtime broadcast failures",
		},
	)

	TranslationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "translation_cache_hits_total",
			Help: "Total translation requests served from the in-process cache",
		},
	)

	TranslationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "translation_cache_misses_total",
			Help: "Total translation requests that called the upstream translator",
		},
	)
)

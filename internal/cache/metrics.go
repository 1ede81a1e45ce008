package cache

import (
	"maps"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache metrics carry a "cache" label equal to Options.Label.
var (
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediafinder",
			Name:      "cache_lookups_total",
			Help:      "Total number of cache lookups by result (hit, miss).",
		},
		[]string{"cache", "result"},
	)

	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediafinder",
			Name:      "cache_evictions_total",
			Help:      "Total number of entries dropped from memory caches.",
		},
		[]string{"cache"},
	)

	entries = &entriesCollector{
		desc: prometheus.NewDesc(
			"mediafinder_cache_entries",
			"Current number of entries per cache.",
			[]string{"cache"},
			nil,
		),
		sources: make(map[string]func() int),
	}
)

func init() {
	prometheus.MustRegister(LookupsTotal, EvictionsTotal, entries)
}

// entriesCollector reports the size of every open labelled store at scrape time.
type entriesCollector struct {
	desc *prometheus.Desc

	mu      sync.Mutex
	sources map[string]func() int
}

func (c *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	sources := maps.Clone(c.sources)
	c.mu.Unlock()

	for label, size := range sources {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(size()), label)
	}
}

// track reports size under label, replacing an earlier store with the same label.
func (c *entriesCollector) track(label string, size func() int) {
	c.mu.Lock()
	c.sources[label] = size
	c.mu.Unlock()
}

func (c *entriesCollector) untrack(label string) {
	c.mu.Lock()
	delete(c.sources, label)
	c.mu.Unlock()
}

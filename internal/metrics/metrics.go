package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"startpage/internal/models"
)

// Suggestion fetch outcomes.
const (
	OutcomeHit   = "cache_hit"
	OutcomeMiss  = "fetched"
	OutcomeError = "error"
	OutcomeStale = "stale"
)

var (
	resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startpage_resolutions_total",
			Help: "Total resolved queries by kind",
		},
		[]string{"kind"},
	)

	suggestionFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startpage_suggestion_fetches_total",
			Help: "Total remote suggestion lookups by outcome",
		},
		[]string{"outcome"},
	)

	shortcutsDesc = prometheus.NewDesc(
		"startpage_shortcuts",
		"Number of shortcuts in the directory",
		nil,
		nil,
	)

	linkHealthDesc = prometheus.NewDesc(
		"startpage_link_health",
		"Number of shortcut URLs by last health check status",
		[]string{"status"},
		nil,
	)
)

// Directory is the part of the shortcut directory the collector reads.
type Directory interface {
	Len() int
}

// HealthSource returns the latest link check results.
type HealthSource interface {
	Results() []models.LinkHealth
}

// DirectoryCollector is a custom Prometheus collector that reads the
// directory size and link health on each scrape.
type DirectoryCollector struct {
	dir    Directory
	health HealthSource
}

// NewDirectoryCollector creates a collector. health may be nil.
func NewDirectoryCollector(dir Directory, health HealthSource) *DirectoryCollector {
	return &DirectoryCollector{dir: dir, health: health}
}

// Describe sends the metric descriptors to the channel.
func (c *DirectoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- shortcutsDesc
	ch <- linkHealthDesc
}

// Collect emits the current directory size and link health counts.
func (c *DirectoryCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(shortcutsDesc, prometheus.GaugeValue, float64(c.dir.Len()))

	if c.health == nil {
		return
	}
	counts := map[string]int{
		models.HealthHealthy:   0,
		models.HealthUnhealthy: 0,
		models.HealthUnknown:   0,
	}
	for _, r := range c.health.Results() {
		counts[r.Status]++
	}
	for status, n := range counts {
		ch <- prometheus.MustNewConstMetric(linkHealthDesc, prometheus.GaugeValue, float64(n), status)
	}
}

var initOnce sync.Once

// Init registers the counters and the directory collector with the default
// registry. Must be called once at startup.
func Init(dir Directory, health HealthSource) {
	initOnce.Do(func() {
		prometheus.MustRegister(resolutions, suggestionFetches, NewDirectoryCollector(dir, health))
	})
}

// RecordResolution counts a resolved query.
func RecordResolution(kind models.Kind) {
	resolutions.WithLabelValues(string(kind)).Inc()
}

// RecordSuggestionFetch counts a remote suggestion lookup.
func RecordSuggestionFetch(outcome string) {
	suggestionFetches.WithLabelValues(outcome).Inc()
}

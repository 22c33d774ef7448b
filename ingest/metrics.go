package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts ingest outcomes for the watch-mode metrics endpoint.
type Metrics struct {
	// FilesParsed counts visit files parsed successfully.
	FilesParsed prometheus.Counter

	// ParseFailures counts visit files that failed to parse.
	ParseFailures prometheus.Counter

	// ParseWarnings counts recovered parse warnings across all files.
	ParseWarnings prometheus.Counter
}

// NewMetrics creates and registers the ingest counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FilesParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitparse_files_parsed_total",
			Help: "Number of visit files parsed successfully.",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitparse_parse_failures_total",
			Help: "Number of visit files that failed to parse.",
		}),
		ParseWarnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitparse_parse_warnings_total",
			Help: "Number of recovered parse warnings.",
		}),
	}
}

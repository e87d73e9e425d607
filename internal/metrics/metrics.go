// Package metrics exposes Prometheus counters for argument type resolution,
// custom type builds and argument parsing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "argshell_build_info",
			Help: "Build information for argshell",
		},
		[]string{"date", "sha", "version"},
	)

	resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argshell_type_resolutions_total",
			Help: "Parameter type resolutions by where the type was found",
		},
		[]string{"origin"},
	)

	builds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argshell_type_builds_total",
			Help: "Custom argument type builds by result",
		},
		[]string{"result"},
	)

	parseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argshell_parse_failures_total",
			Help: "Arguments rejected while parsing or extracting, by type suffix",
		},
		[]string{"suffix"},
	)

	suggestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argshell_suggestions_total",
			Help: "Suggestion requests served, by type suffix",
		},
		[]string{"suffix"},
	)
)

// Register registers all argshell metrics with r.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, resolutions, builds, parseFailures, suggestions)
}

// SetBuildInfo sets the build info metric.
func SetBuildInfo(version, sha, date string) {
	buildInfo.WithLabelValues(date, sha, version).Set(1)
}

// RecordResolution counts a resolution; origin is custom, builtin or default.
func RecordResolution(origin string) { resolutions.WithLabelValues(origin).Inc() }

// RecordBuild counts a custom type build.
func RecordBuild(success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	builds.WithLabelValues(result).Inc()
}

func RecordParseFailure(suffix string) { parseFailures.WithLabelValues(suffix).Inc() }

func RecordSuggestion(suffix string) { suggestions.WithLabelValues(suffix).Inc() }

package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ingestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_ingest_runs_total",
			Help: "Menu ingestion runs by outcome.",
		},
		[]string{"outcome"}, // unchanged|updated|skipped|error
	)

	dishesParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menu_dishes_parsed_total",
			Help: "Dish lines successfully parsed across all ingestion runs.",
		},
	)

	parseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menu_parse_failures_total",
			Help: "Dish lines skipped because their text could not be parsed.",
		},
	)
)

func init() {
	prometheus.MustRegister(ingestRuns, dishesParsed, parseFailures)
}

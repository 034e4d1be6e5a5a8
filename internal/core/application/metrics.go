package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pathsEvaluatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "samm",
		Subsystem: "router",
		Name:      "paths_evaluated_total",
		Help:      "Number of candidate paths evaluated by discovery requests.",
	})
	pathsDiscardedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "samm",
		Subsystem: "router",
		Name:      "paths_discarded_total",
		Help:      "Number of candidate paths discarded by admission checks.",
	})
	quotesIssuedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "samm",
		Subsystem: "router",
		Name:      "quotes_issued_total",
		Help:      "Number of path quotes issued.",
	})
	executionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "samm",
		Subsystem: "executor",
		Name:      "executions_total",
		Help:      "Number of execution attempts by outcome.",
	}, []string{"outcome"})
	reserveRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "samm",
		Subsystem: "registry",
		Name:      "reserve_refresh_failures_total",
		Help:      "Number of failed reserve snapshot refreshes.",
	})
)

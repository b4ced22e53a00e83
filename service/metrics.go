/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fmtgate_runs_total",
		Help: "Gate runs by outcome (compliant, fixed, error).",
	}, []string{"outcome"})

	eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fmtgate_events_dropped_total",
		Help: "Webhook events dropped because the queue was full.",
	})
)

// Outcome labels for runsTotal.
const (
	outcomeCompliant = "compliant"
	outcomeFixed     = "fixed"
	outcomeError     = "error"
)

// RecordRun counts a gate run that completed without error. Failed runs are
// counted by the Dispatcher.
func RecordRun(fixed bool) {
	if fixed {
		runsTotal.WithLabelValues(outcomeFixed).Inc()
	} else {
		runsTotal.WithLabelValues(outcomeCompliant).Inc()
	}
}

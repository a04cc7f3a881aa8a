// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds optional counters for a Store, labeled by collection
// name (counter allocations by counter name). A nil *Metrics is valid and every method on it is a no-op, so
// call sites never need to check whether metrics were configured.
type Metrics struct {
	puts               *prometheus.CounterVec
	deletes            *prometheus.CounterVec
	batchSplits        *prometheus.CounterVec
	staleIndexEntries  *prometheus.CounterVec
	counterAllocations *prometheus.CounterVec
}

// NewMetrics constructs a Metrics and registers its collectors with
// reg. Pass the result to Open via WithMetrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		puts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "centidb_puts_total",
			Help: "Total number of Collection.Put calls.",
		}, []string{"collection"}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "centidb_deletes_total",
			Help: "Total number of Collection.Delete calls that removed a record.",
		}, []string{"collection"}),
		batchSplits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "centidb_batch_splits_total",
			Help: "Total number of batch physical keys exploded on write.",
		}, []string{"collection"}),
		staleIndexEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "centidb_stale_index_entries_total",
			Help: "Total number of stale index entries encountered during iteration.",
		}, []string{"collection"}),
		counterAllocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "centidb_counter_allocations_total",
			Help: "Total number of Store.Count calls.",
		}, []string{"counter"}),
	}
	reg.MustRegister(m.puts, m.deletes, m.batchSplits, m.staleIndexEntries, m.counterAllocations)
	return m
}

func (m *Metrics) incPuts(collection string) {
	if m == nil {
		return
	}
	m.puts.WithLabelValues(collection).Inc()
}

func (m *Metrics) incDeletes(collection string) {
	if m == nil {
		return
	}
	m.deletes.WithLabelValues(collection).Inc()
}

func (m *Metrics) incBatchSplits(collection string) {
	if m == nil {
		return
	}
	m.batchSplits.WithLabelValues(collection).Inc()
}

func (m *Metrics) incStaleIndexEntries(collection string) {
	if m == nil {
		return
	}
	m.staleIndexEntries.WithLabelValues(collection).Inc()
}

func (m *Metrics) incCounterAllocations(counter string) {
	if m == nil {
		return
	}
	m.counterAllocations.WithLabelValues(counter).Inc()
}
